// Package notify publishes classified media changes to Discord. It owns
// the suppression policy (rename and delete filtering); the detection
// core only supplies the factual classification.
package notify
