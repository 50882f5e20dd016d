// Package plugins wires the built-in plugin set into a manager's
// registration table.
package plugins

import (
	"github.com/praneethvg/video-summarizer/internal/plugin"
	"github.com/praneethvg/video-summarizer/internal/plugins/driveupload"
	"github.com/praneethvg/video-summarizer/internal/plugins/providers"
	"github.com/praneethvg/video-summarizer/internal/plugins/sentiment"
)

// RegisterBuiltins adds every compiled-in plugin to the manager. This is the
// single registration point; there is no filesystem scanning.
func RegisterBuiltins(m *plugin.Manager) error {
	entries := []struct {
		desc    plugin.Descriptor
		factory plugin.Factory
	}{
		{providers.YouTubeDescriptor, providers.NewYouTube},
		{providers.VimeoDescriptor, providers.NewVimeo},
		{sentiment.Descriptor, sentiment.New},
		{driveupload.Descriptor, driveupload.New},
	}
	for _, entry := range entries {
		if err := m.Register(entry.desc, entry.factory); err != nil {
			return err
		}
	}
	return nil
}
