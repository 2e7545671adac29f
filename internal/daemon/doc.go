// Package daemon wires the record store, webhook server, reconciler, and
// notifier into a single supervised process and enforces single-instance
// execution.
package daemon
