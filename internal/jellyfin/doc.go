// Package jellyfin implements the media server client used by the
// reconciliation sync to pull full library snapshots.
package jellyfin
