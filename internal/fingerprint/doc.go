// Package fingerprint computes the deterministic content hash used to
// decide whether a media record changed in a notification-worthy way.
package fingerprint
