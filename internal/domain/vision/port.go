package vision

import (
	"context"
	"image"
)

// Detector is a hosted vision model that answers object prompts about an image.
type Detector interface {
	Detect(ctx context.Context, img image.Image, object string) (DetectResult, error)
	Point(ctx context.Context, img image.Image, object string) (PointResult, error)
}
