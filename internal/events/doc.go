// Package events implements the synchronous event bus that connects the
// pipeline to its plugins.
//
// Publishers emit typed envelopes; subscribers register a handler per event
// type and are invoked in subscription order on the publisher's goroutine. A
// failing handler never prevents later handlers from running, and the
// publisher receives a per-handler delivery report instead of a short-circuit
// error.
package events
