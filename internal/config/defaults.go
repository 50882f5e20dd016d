package config

const (
	defaultOutputDir            = "~/.local/share/video-summarizer/output"
	defaultTempDir              = "~/.local/share/video-summarizer/temp"
	defaultLogDir               = "~/.local/share/video-summarizer/logs"
	defaultOpenAIBaseURL        = "https://api.openai.com/v1"
	defaultOpenAIModel          = "gpt-4o"
	defaultOpenAITimeoutSeconds = 60
	defaultWhisperModel         = "small"
	defaultWhisperDevice        = "auto"
	defaultWhisperComputeType   = "float16"
	defaultWhisperBatchSize     = 16
	defaultSummaryStyle         = "comprehensive"
	defaultSummaryLength        = "medium"
	defaultSummaryFormat        = "text"
	defaultCaptionLanguage      = "en"
	defaultNotifyTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			TempDir:   defaultTempDir,
			LogDir:    defaultLogDir,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			TimeoutSeconds: defaultOpenAITimeoutSeconds,
		},
		Whisper: Whisper{
			Model:       defaultWhisperModel,
			Device:      defaultWhisperDevice,
			ComputeType: defaultWhisperComputeType,
			BatchSize:   defaultWhisperBatchSize,
		},
		Summary: Summary{
			Style:  defaultSummaryStyle,
			Length: defaultSummaryLength,
			Format: defaultSummaryFormat,
		},
		Captions: Captions{
			Language:     defaultCaptionLanguage,
			PreferManual: true,
		},
		Plugins: Plugins{
			LoadAllByDefault: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Drive: Drive{
			UploadTranscripts: true,
			UploadSummaries:   true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
