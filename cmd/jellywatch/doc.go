// Command jellywatch runs the Jellyfin-to-Discord notification
// intermediary and its maintenance utilities.
package main
