// Package transcriber produces transcripts from downloaded audio. It wraps
// the whisper CLI for local transcription and converts SRT caption files
// into plain transcript text for the captions-first path.
package transcriber
