// Package moondream calls the Moondream Cloud REST API.
package moondream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/imaging"
)

const DefaultBaseURL = "https://api.moondream.ai/v1"

// Client implements vision.Detector.
type Client struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	MaxDimension uint
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type request struct {
	ImageURL string `json:"image_url"`
	Object   string `json:"object"`
	Stream   bool   `json:"stream"`
}

func (c *Client) Detect(ctx context.Context, img image.Image, object string) (vision.DetectResult, error) {
	var out vision.DetectResult
	if err := c.call(ctx, "/detect", img, object, &out); err != nil {
		return vision.DetectResult{}, err
	}
	for i := range out.Objects {
		out.Objects[i] = out.Objects[i].Clamp()
	}
	return out, nil
}

func (c *Client) Point(ctx context.Context, img image.Image, object string) (vision.PointResult, error) {
	var out vision.PointResult
	if err := c.call(ctx, "/point", img, object, &out); err != nil {
		return vision.PointResult{}, err
	}
	if out.Points == nil {
		out.Points = []vision.Point{}
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, path string, img image.Image, object string, out any) error {
	uri, err := imaging.DataURI(img, c.MaxDimension)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	body, err := json.Marshal(request{ImageURL: uri, Object: object})
	if err != nil {
		return fmt.Errorf("failed to marshal moondream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create moondream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Moondream-Auth", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("moondream request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("moondream %s: %w", path, vision.ErrQuotaExceeded)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("moondream %s: %w", path, vision.ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("moondream %s returned status: %d %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode moondream response: %w", err)
	}
	return nil
}
