package analysis

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
)

// Coordinates of the requested location
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key is the file-name stem used for images fetched for this location.
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "-" + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Status enum
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// PixelPoint is a location on the downloaded image in pixels.
type PixelPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Summary is the model output for one location.
type Summary struct {
	PotholesDetected   int                 `json:"potholes_detected"`
	DetectionDetails   []vision.Detection  `json:"detection_details"`
	Status             Status              `json:"status"`
	CenterPoint        *PixelPoint         `json:"center_point,omitempty"`
	PointAnalysis      *vision.PointResult `json:"point_analysis,omitempty"`
	AnnotatedImagePath string              `json:"annotated_image_path,omitempty"`
}

// Result is returned for a completed analysis. It is never persisted as-is;
// see Record.
type Result struct {
	ID            string      `json:"id"`
	Location      Coordinates `json:"location"`
	StreetViewURL string      `json:"street_view_url"`
	Address       string      `json:"address,omitempty"`
	Analysis      Summary     `json:"analysis"`
}

// Failure is returned instead of a Result when any step fails.
type Failure struct {
	Error    string      `json:"error"`
	Location Coordinates `json:"location"`
	Status   Status      `json:"status"`
}

// NewFailure wraps err for the caller, keeping the original coordinates.
func NewFailure(c Coordinates, err error) Failure {
	return Failure{
		Error:    fmt.Sprintf("Analysis failed: %v", err),
		Location: c,
		Status:   StatusFailed,
	}
}

// Record is one analysis kept in history
type Record struct {
	ID               string    `json:"id" db:"id"`
	Latitude         float64   `json:"latitude" db:"latitude"`
	Longitude        float64   `json:"longitude" db:"longitude"`
	Status           Status    `json:"status" db:"status"`
	PotholesDetected int       `json:"potholes_detected" db:"potholes_detected"`
	Error            string    `json:"error,omitempty" db:"error_message"`
	Result           string    `json:"result" db:"result_json"` // JSON of Result or Failure
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
