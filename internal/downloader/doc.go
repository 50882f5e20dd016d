// Package downloader defines the contract video-source integrations
// implement and the registry that resolves URLs to them.
//
// Downloaders register in a fixed order and the first one that accepts a URL
// wins, so overlap between sources is resolved deterministically by
// registration order rather than by specificity heuristics.
package downloader
