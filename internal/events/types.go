package events

// Type identifies a category of pipeline event.
type Type string

const (
	// TypeVideoDiscovered fires when a URL has been resolved to a concrete
	// video before any download work starts.
	TypeVideoDiscovered Type = "video.discovered"
	// TypeVideoDownloaded fires once the audio track is on disk.
	TypeVideoDownloaded Type = "video.downloaded"
	// TypeTranscriptGenerated fires when a transcript has been produced,
	// whether from captions or local transcription.
	TypeTranscriptGenerated Type = "transcript.generated"
	// TypeSummaryCreated fires after the summary has been written.
	TypeSummaryCreated Type = "summary.created"
	// TypeProcessingError fires when a pipeline stage fails for an item.
	TypeProcessingError Type = "processing.error"
)

// VideoDiscovered is the payload carried by TypeVideoDiscovered envelopes.
type VideoDiscovered struct {
	ItemID   int64
	URL      string
	VideoID  string
	Title    string
	Provider string
}

// VideoDownloaded is the payload carried by TypeVideoDownloaded envelopes.
type VideoDownloaded struct {
	ItemID    int64
	VideoID   string
	Title     string
	AudioPath string
}

// TranscriptGenerated is the payload carried by TypeTranscriptGenerated
// envelopes. CaptionSource is "manual", "automatic", or "whisper".
type TranscriptGenerated struct {
	ItemID         int64
	VideoID        string
	TranscriptPath string
	Language       string
	CaptionSource  string
}

// SummaryCreated is the payload carried by TypeSummaryCreated envelopes.
type SummaryCreated struct {
	ItemID      int64
	VideoID     string
	SummaryPath string
	Style       string
	WordCount   int
}

// ProcessingError is the payload carried by TypeProcessingError envelopes.
type ProcessingError struct {
	ItemID  int64
	Stage   string
	Message string
}
