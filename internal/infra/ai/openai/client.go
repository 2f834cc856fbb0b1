package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/ai/prompt"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/imaging"
)

const (
	maxTokens    = 1024
	defaultModel = "gpt-4o"
)

// Client implements vision.Detector on top of chat completions with image input.
type Client struct {
	*openai.Client
	Model        string
	MaxDimension uint
}

// NewClientWithBaseURL points the client at an OpenAI-compatible endpoint.
// An empty baseURL keeps the public OpenAI API.
func NewClientWithBaseURL(apiKey, baseURL, model string, httpClient *http.Client) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (c *Client) Detect(ctx context.Context, img image.Image, object string) (vision.DetectResult, error) {
	content, id, err := c.complete(ctx, prompt.GetDetectSystemPrompt(), object, img)
	if err != nil {
		return vision.DetectResult{}, err
	}
	var out vision.DetectResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return vision.DetectResult{}, fmt.Errorf("failed to decode detect output: %w", err)
	}
	for i := range out.Objects {
		out.Objects[i] = out.Objects[i].Clamp()
	}
	out.RequestID = id
	return out, nil
}

func (c *Client) Point(ctx context.Context, img image.Image, object string) (vision.PointResult, error) {
	content, id, err := c.complete(ctx, prompt.GetPointSystemPrompt(), object, img)
	if err != nil {
		return vision.PointResult{}, err
	}
	var out vision.PointResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return vision.PointResult{}, fmt.Errorf("failed to decode point output: %w", err)
	}
	if out.Points == nil {
		out.Points = []vision.Point{}
	}
	out.RequestID = id
	return out, nil
}

func (c *Client) complete(ctx context.Context, system, object string, img image.Image) (string, string, error) {
	uri, err := imaging.DataURI(img, c.MaxDimension)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode image: %w", err)
	}

	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt(object)},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    uri,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("failed to create chat completion: %w", classify(err))
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, resp.ID, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", vision.ErrQuotaExceeded, apiErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", vision.ErrUnauthorized, apiErr.Message)
		}
	}
	return err
}
