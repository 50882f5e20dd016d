// Package driveupload is a processor plugin that ships transcripts and
// summaries to a configured HTTP upload endpoint as they are produced.
package driveupload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/logging"
	"github.com/praneethvg/video-summarizer/internal/plugin"
)

// Descriptor identifies this plugin in the registration table.
var Descriptor = plugin.Descriptor{
	Name:        "driveupload",
	Version:     "1.0.0",
	Description: "Uploads transcripts and summaries to a remote folder",
	Author:      "video-summarizer",
	Kind:        plugin.KindProcessor,
	EntryPoint:  "driveupload.New",
}

// Uploader ships one local file into a remote folder and returns the remote
// identifier.
type Uploader interface {
	Upload(ctx context.Context, path, folder string) (string, error)
}

// Plugin uploads pipeline artifacts as their events arrive.
type Plugin struct {
	logger            *slog.Logger
	uploader          Uploader
	folder            string
	uploadTranscripts bool
	uploadSummaries   bool
}

// New is the plugin factory. The upload endpoint comes from the drive config
// section; settings may override "folder", "upload_transcripts", and
// "upload_summaries". Instantiation fails without an endpoint.
func New(deps plugin.Deps, settings map[string]any) (plugin.Plugin, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("driveupload: config required")
	}
	endpoint := strings.TrimSpace(deps.Config.Drive.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("driveupload: upload endpoint not configured")
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	p := &Plugin{
		logger:            logging.WithComponent(logger, "driveupload"),
		uploader:          NewHTTPUploader(endpoint, nil),
		folder:            deps.Config.Drive.Folder,
		uploadTranscripts: deps.Config.Drive.UploadTranscripts,
		uploadSummaries:   deps.Config.Drive.UploadSummaries,
	}
	if raw, ok := settings["folder"]; ok {
		folder, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("driveupload: folder must be a string, got %T", raw)
		}
		p.folder = folder
	}
	if v, ok, err := boolSetting(settings, "upload_transcripts"); err != nil {
		return nil, err
	} else if ok {
		p.uploadTranscripts = v
	}
	if v, ok, err := boolSetting(settings, "upload_summaries"); err != nil {
		return nil, err
	} else if ok {
		p.uploadSummaries = v
	}
	return p, nil
}

func boolSetting(settings map[string]any, key string) (bool, bool, error) {
	raw, ok := settings[key]
	if !ok {
		return false, false, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("driveupload: %s must be a bool, got %T", key, raw)
	}
	return v, true, nil
}

// WithUploader swaps the uploader implementation (for testing).
func (p *Plugin) WithUploader(uploader Uploader) {
	if uploader != nil {
		p.uploader = uploader
	}
}

func (p *Plugin) Info() plugin.Descriptor { return Descriptor }

func (p *Plugin) SubscribedEvents() []events.Type {
	return []events.Type{events.TypeTranscriptGenerated, events.TypeSummaryCreated}
}

func (p *Plugin) Handle(ctx context.Context, env events.Envelope) error {
	var path, kind string
	switch payload := env.Payload.(type) {
	case events.TranscriptGenerated:
		if !p.uploadTranscripts {
			return nil
		}
		path, kind = payload.TranscriptPath, "transcript"
	case events.SummaryCreated:
		if !p.uploadSummaries {
			return nil
		}
		path, kind = payload.SummaryPath, "summary"
	default:
		return nil
	}
	if path == "" {
		return nil
	}

	remoteID, err := p.uploader.Upload(ctx, path, p.folder)
	if err != nil {
		return fmt.Errorf("driveupload: upload %s: %w", path, err)
	}
	p.logger.Info("artifact uploaded",
		slog.String("kind", kind),
		slog.String("path", path),
		slog.String("remote_id", remoteID))
	return nil
}

// HTTPUploader posts files as multipart form data. The endpoint is expected
// to respond with {"id": "..."} on success.
type HTTPUploader struct {
	endpoint string
	client   *http.Client
}

// NewHTTPUploader builds an uploader against the endpoint. A nil client gets
// a 30 second timeout default.
func NewHTTPUploader(endpoint string, client *http.Client) *HTTPUploader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPUploader{endpoint: endpoint, client: client}
}

func (u *HTTPUploader) Upload(ctx context.Context, path, folder string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.ID == "" {
		// Some endpoints return a bare identifier instead of JSON.
		return strings.TrimSpace(string(respBody)), nil
	}
	return parsed.ID, nil
}
