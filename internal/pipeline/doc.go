// Package pipeline contains the built-in processors that carry a video from
// URL to summary, and the runner that wires them to the event dispatcher.
//
// The chain is driven entirely by synchronous event publishing: the download
// processor handles discovery events and publishes download events, the
// transcription processor turns those into transcript events, and the
// summarization processor finishes the chain. Plugins subscribe to the same
// dispatcher and observe each hop. Every stage failure is recorded on the
// history item and surfaced as a processing error event.
package pipeline
