package wan

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ministudio/internal/infra"
)

// ErrNoReachableTarget indicates that none of the configured Space targets
// answered the API probe.
var ErrNoReachableTarget = errors.New("wan: no reachable space target")

const (
	apiInfoPath  = "/gradio_api/info"
	generatePath = "/gradio_api/call/generate_video"
	filePath     = "/gradio_api/file="
)

// Options configures the WAN 2.2 gradio Space client.
type Options struct {
	// Targets are tried in order: either "owner/space" ids or direct URLs.
	Targets        []string
	Token          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
}

// Client performs HTTP calls against a WAN 2.2 gradio Space.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *infra.Logger
}

// GenerateRequest captures the inputs of the Space's /generate_video endpoint.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Duration       float64
	GuidanceScale  float64
	GuidanceScale2 float64
	Steps          int
	Seed           int64
	RandomizeSeed  bool
}

// VideoResult is the normalized result of one generation call.
type VideoResult struct {
	Data   []byte
	URL    string
	Format string
	Seed   int64
}

type callResponse struct {
	EventID string `json:"event_id"`
}

type fileData struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Connect tries each configured target and returns a client bound to the
// first Space whose API info endpoint answers. Mirrors the fail-fast probe
// the original client performs before exposing the generate button.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// No overall timeout: a single generation can legitimately run for
		// minutes. Cancellation rides the request context.
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 15 * time.Second
	}
	if len(opts.Targets) == 0 {
		return nil, ErrNoReachableTarget
	}

	var lastErr error
	for _, target := range opts.Targets {
		base, err := canonicalTarget(target)
		if err != nil {
			lastErr = err
			continue
		}
		c := &Client{
			baseURL:    base,
			token:      strings.TrimSpace(opts.Token),
			httpClient: httpClient,
			logger:     logger,
		}
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err = c.probe(probeCtx)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("target", target).Msg("wan: space target unreachable")
			lastErr = err
			continue
		}
		logger.Info().Str("base_url", base).Msg("wan: connected to space")
		return c, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoReachableTarget, lastErr)
	}
	return nil, ErrNoReachableTarget
}

// BaseURL returns the resolved Space URL the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// probe fetches the Space's API description to verify the endpoint exists.
func (c *Client) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiInfoPath, nil)
	if err != nil {
		return fmt.Errorf("wan: build probe request: %w", err)
	}
	c.authorize(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wan: probe request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("wan: probe status %d", resp.StatusCode)
	}
	return nil
}

// GenerateVideo performs the two-step gradio call: enqueue the generation,
// then follow the event stream until the Space reports completion, and
// finally download the rendered clip.
func (c *Client) GenerateVideo(ctx context.Context, req GenerateRequest) (*VideoResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("wan: prompt is required")
	}

	eventID, err := c.enqueue(ctx, req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("event_id", eventID).Msg("wan: generation enqueued")

	result, seed, err := c.awaitResult(ctx, eventID)
	if err != nil {
		return nil, err
	}

	videoURL := strings.TrimSpace(result.URL)
	if videoURL == "" && result.Path != "" {
		videoURL = c.baseURL + filePath + result.Path
	}
	if videoURL == "" {
		return nil, errors.New("wan: server returned but video file was not found")
	}

	data, format, err := c.download(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("event_id", eventID).
		Int("bytes", len(data)).
		Int64("seed", seed).
		Msg("wan: downloaded video asset")
	return &VideoResult{Data: data, URL: videoURL, Format: format, Seed: seed}, nil
}

func (c *Client) enqueue(ctx context.Context, req GenerateRequest) (string, error) {
	payload := map[string]any{
		"data": []any{
			req.Prompt,
			req.NegativePrompt,
			req.Duration,
			req.GuidanceScale,
			req.GuidanceScale2,
			float64(req.Steps),
			float64(req.Seed),
			req.RandomizeSeed,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("wan: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("wan: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("wan: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("wan: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("wan: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var decoded callResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("wan: decode response: %w", err)
	}
	if decoded.EventID == "" {
		return "", errors.New("wan: missing event id")
	}
	return decoded.EventID, nil
}

// awaitResult follows the server-sent event stream for one call and returns
// the video payload and the seed the Space actually used.
func (c *Client) awaitResult(ctx context.Context, eventID string) (fileData, int64, error) {
	endpoint := c.baseURL + generatePath + "/" + url.PathEscape(eventID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fileData{}, 0, fmt.Errorf("wan: build result request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fileData{}, 0, fmt.Errorf("wan: result request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fileData{}, 0, fmt.Errorf("wan: result status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	event := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "complete":
				return parseResultData(data)
			case "error":
				if data == "" || data == "null" {
					return fileData{}, 0, errors.New("wan: generation failed")
				}
				return fileData{}, 0, fmt.Errorf("wan: generation failed: %s", data)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fileData{}, 0, fmt.Errorf("wan: read event stream: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fileData{}, 0, err
	}
	return fileData{}, 0, errors.New("wan: event stream ended without completion")
}

// parseResultData decodes the `complete` payload: [videoFile, seed].
func parseResultData(data string) (fileData, int64, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return fileData{}, 0, fmt.Errorf("wan: decode result: %w", err)
	}
	if len(items) == 0 {
		return fileData{}, 0, errors.New("wan: empty result")
	}
	var file struct {
		Video *fileData `json:"video"`
		fileData
	}
	if err := json.Unmarshal(items[0], &file); err != nil {
		return fileData{}, 0, fmt.Errorf("wan: decode video payload: %w", err)
	}
	out := file.fileData
	if file.Video != nil {
		out = *file.Video
	}
	var seed int64
	if len(items) > 1 {
		var f float64
		if err := json.Unmarshal(items[1], &f); err == nil {
			seed = int64(f)
		}
	}
	return out, seed, nil
}

func (c *Client) download(ctx context.Context, videoURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("wan: invalid video url: %s", videoURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("wan: build download request: %w", err)
	}
	c.authorize(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("wan: download video: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("wan: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("wan: read video: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" || strings.HasPrefix(format, "application/octet-stream") {
		format = "video/mp4"
	}
	return data, format, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// canonicalTarget resolves a Space target to a base URL. "owner/space" ids
// become their hf.space hostname the way Hugging Face derives subdomains.
func canonicalTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", errors.New("wan: empty space target")
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return strings.TrimRight(target, "/"), nil
	}
	host := strings.ToLower(target)
	for _, r := range []string{"/", "_", "."} {
		host = strings.ReplaceAll(host, r, "-")
	}
	return "https://" + host + ".hf.space", nil
}
