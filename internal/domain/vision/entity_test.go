package vision

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectionCenter(t *testing.T) {
	tests := []struct {
		name string
		det  Detection
		w, h int
		want image.Point
	}{
		{"mid", Detection{XMin: 0.25, YMin: 0.5, XMax: 0.75, YMax: 1}, 600, 400, image.Point{X: 300, Y: 300}},
		{"truncates", Detection{XMin: 0.1, YMin: 0.1, XMax: 0.2, YMax: 0.2}, 601, 401, image.Point{X: 90, Y: 60}},
		{"origin", Detection{}, 600, 400, image.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.det.Center(tt.w, tt.h))
		})
	}
}

func TestDetectionClamp(t *testing.T) {
	got := Detection{XMin: -0.2, YMin: math.NaN(), XMax: 1.4, YMax: 0.5}.Clamp()
	assert.Equal(t, Detection{XMin: 0, YMin: 0, XMax: 1, YMax: 0.5}, got)
}
