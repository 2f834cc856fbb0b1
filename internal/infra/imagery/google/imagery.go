// Package google builds Google Maps static imagery URLs, downloads the
// images and reverse geocodes coordinates.
package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

const (
	DefaultStreetViewURL = "https://maps.googleapis.com/maps/api/streetview"
	DefaultStaticMapURL  = "https://maps.googleapis.com/maps/api/staticmap"
)

// Source selects which imagery endpoint is used.
type Source string

const (
	SourceStreetView Source = "streetview"
	SourceSatellite  Source = "satellite"
)

// ErrMissingKey is returned when no API key is configured.
var ErrMissingKey = errors.New("set the GOOGLE_MAPS_KEY environment variable")

// Options for the imagery client. Zero values fall back to the defaults
// used by NewClient.
type Options struct {
	APIKey  string
	Source  Source
	Size    string
	Heading int
	Pitch   int
	FOV     int
	Zoom    int
	MapType string
	Timeout time.Duration

	StreetViewURL string
	StaticMapURL  string
}

// Client implements domain.Imagery.
type Client struct {
	opts Options
	http *http.Client
}

func NewClient(opts Options) *Client {
	if opts.Source == "" {
		opts.Source = SourceStreetView
	}
	if opts.Size == "" {
		opts.Size = "600x400"
	}
	if opts.FOV == 0 {
		opts.FOV = 80
	}
	if opts.Zoom == 0 {
		opts.Zoom = 18
	}
	if opts.MapType == "" {
		opts.MapType = "satellite"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.StreetViewURL == "" {
		opts.StreetViewURL = DefaultStreetViewURL
	}
	if opts.StaticMapURL == "" {
		opts.StaticMapURL = DefaultStaticMapURL
	}
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
}

// URL returns the image URL for c according to the configured source.
func (c *Client) URL(coord domain.Coordinates) (string, error) {
	if c.opts.Source == SourceSatellite {
		return c.StaticMapURL(coord)
	}
	return c.StreetViewURL(coord)
}

// StreetViewURL returns a URL for a static Street View JPEG at coord.
func (c *Client) StreetViewURL(coord domain.Coordinates) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrMissingKey
	}
	q := url.Values{}
	q.Set("size", c.opts.Size)
	q.Set("location", latLng(coord))
	q.Set("heading", strconv.Itoa(c.opts.Heading))
	q.Set("pitch", strconv.Itoa(c.opts.Pitch))
	q.Set("fov", strconv.Itoa(c.opts.FOV))
	q.Set("key", c.opts.APIKey)
	return c.opts.StreetViewURL + "?" + q.Encode(), nil
}

// StaticMapURL returns a URL for an overhead static map image centred on coord.
func (c *Client) StaticMapURL(coord domain.Coordinates) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrMissingKey
	}
	q := url.Values{}
	q.Set("center", latLng(coord))
	q.Set("zoom", strconv.Itoa(c.opts.Zoom))
	q.Set("size", c.opts.Size)
	q.Set("maptype", c.opts.MapType)
	q.Set("key", c.opts.APIKey)
	return c.opts.StaticMapURL + "?" + q.Encode(), nil
}

// Download fetches rawURL and writes the body to dst, replacing any
// existing file. The client timeout bounds the whole call.
func (c *Client) Download(ctx context.Context, rawURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("image request failed: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image provider returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	return os.WriteFile(dst, body, 0o644)
}

func latLng(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// redact strips the request URL (which carries the API key) from transport errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
