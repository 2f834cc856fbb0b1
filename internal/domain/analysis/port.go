package analysis

import (
	"context"
	"image"
)

// Imagery port (street-level or overhead image provider)
type Imagery interface {
	URL(c Coordinates) (string, error)
	Download(ctx context.Context, url, dst string) error
}

// Geocoder port, optional
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinates) (string, error)
}

// ImageStore port (publishes annotated images and returns a URL for clients)
type ImageStore interface {
	Publish(ctx context.Context, localPath, key string) (string, error)
}

// Repository port (history), optional
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
}

// Canvas port (local decode and marker drawing on downloaded images)
type Canvas interface {
	Load(path string) (image.Image, error)
	Annotate(src image.Image, at PixelPoint, dst string) (image.Image, error)
}
