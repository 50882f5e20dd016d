// Package ytdlp wraps the yt-dlp binary. The concrete downloaders delegate
// metadata probes, audio downloads, and caption fetches to a shared Runner so
// they only contribute URL matching and provider naming.
package ytdlp
