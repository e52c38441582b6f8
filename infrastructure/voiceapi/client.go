package voiceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voiceswap/domain/voice"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultModelID is the transformation algorithm requested when the
	// config does not name one.
	DefaultModelID = "revoice-v1"

	// DefaultTimeout bounds a single service call, including draining the
	// streamed response.
	DefaultTimeout = 5 * time.Minute

	errBodyLimit = 2048
)

// Client implements voice.Transformer and voice.Enroller against the
// speech-transformation service's HTTP API.
type Client struct {
	baseURL    string
	modelID    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithModelID overrides the transformation model identifier
func WithModelID(id string) ClientOption {
	return func(c *Client) {
		c.modelID = id
	}
}

// WithTimeout overrides the per-call timeout. Apply after any option that
// replaces the HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAPIKey sets a bearer token sent with every request
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithClientCredentials authenticates via the OAuth2 client-credentials flow
// instead of a static API key.
func WithClientCredentials(clientID, clientSecret, tokenURL string) ClientOption {
	return func(c *Client) {
		cfg := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		}
		c.httpClient = cfg.Client(context.Background())
		c.httpClient.Timeout = DefaultTimeout
	}
}

// NewClient creates a new transformation-service client
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		modelID:    DefaultModelID,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Transform implements voice.Transformer. The request body is streamed from
// disk and the transformed audio comes back as a stream the caller must
// drain and close.
func (c *Client) Transform(ctx context.Context, req *voice.TransformRequest) (io.ReadCloser, error) {
	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source audio: %w", err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer audio.Close()
		pw.CloseWithError(writeTransformForm(form, audio, req, c.modelID))
	}()

	endpoint := fmt.Sprintf("%s/v1/voices/%s/transform", c.baseURL, url.PathEscape(req.Voice.String()))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to build transform request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transform request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("transformation service returned %s: %s", resp.Status, errorSnippet(resp.Body))
	}

	return resp.Body, nil
}

// Enroll implements voice.Enroller. It is a one-shot call that uploads the
// sample recordings and returns the identity the service assigned.
func (c *Client) Enroll(ctx context.Context, req *voice.EnrollmentRequest) (voice.Identity, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeEnrollForm(form, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/voices", pr)
	if err != nil {
		return "", fmt.Errorf("failed to build enroll request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("enroll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("transformation service returned %s: %s", resp.Status, errorSnippet(resp.Body))
	}

	var body struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode enroll response: %w", err)
	}

	return voice.NewIdentity(body.VoiceID)
}

// Ping checks that the service is reachable and healthy
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("transformation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transformation service unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func writeTransformForm(form *multipart.Writer, audio io.Reader, req *voice.TransformRequest, modelID string) error {
	if err := form.WriteField("model", modelID); err != nil {
		return err
	}
	if err := form.WriteField("voice_id", req.Voice.String()); err != nil {
		return err
	}

	part, err := form.CreateFormFile("audio", filepath.Base(req.AudioPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}

	return form.Close()
}

func writeEnrollForm(form *multipart.Writer, req *voice.EnrollmentRequest) error {
	if err := form.WriteField("name", req.Name); err != nil {
		return err
	}

	for _, samplePath := range req.SamplePaths {
		sample, err := os.Open(samplePath)
		if err != nil {
			return fmt.Errorf("failed to open sample %s: %w", samplePath, err)
		}

		part, err := form.CreateFormFile("samples", filepath.Base(samplePath))
		if err != nil {
			sample.Close()
			return err
		}
		if _, err := io.Copy(part, sample); err != nil {
			sample.Close()
			return err
		}
		sample.Close()
	}

	return form.Close()
}

// errorSnippet reads a bounded prefix of an error response body for messages
func errorSnippet(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, errBodyLimit))
	if err != nil || len(b) == 0 {
		return "(no response body)"
	}
	return strings.TrimSpace(string(b))
}

// Ensure Client implements the service ports
var (
	_ voice.Transformer = (*Client)(nil)
	_ voice.Enroller    = (*Client)(nil)
)
