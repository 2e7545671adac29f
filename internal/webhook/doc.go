// Package webhook receives Jellyfin webhook events over HTTP, runs them
// through the classification pipeline, and hands notification-worthy
// outcomes to the notifier.
package webhook
