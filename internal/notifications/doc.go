// Package notifications pushes pipeline progress to an ntfy topic. Without a
// configured topic the service is a noop, so callers never branch on whether
// notifications are enabled.
package notifications
