package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

func grey(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 90, G: 90, B: 90, A: 255})
		}
	}
	return img
}

func TestAnnotatePointDrawsMarker(t *testing.T) {
	src := grey(60, 40)
	out := AnnotatePoint(src, image.Pt(20, 20), DefaultMarker())

	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(20, 20), "center")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(26, 20), "edge of radius")
	assert.Equal(t, color.RGBA{R: 90, G: 90, B: 90, A: 255}, out.RGBAAt(15, 15), "outside circle")
	// label box sits right of the circle and is lighter than the background
	assert.Greater(t, out.RGBAAt(29, 20).G, uint8(150))
	// source untouched
	assert.Equal(t, color.RGBA{R: 90, G: 90, B: 90, A: 255}, src.RGBAAt(20, 20))
}

func TestAnnotatePointNearBorder(t *testing.T) {
	out := AnnotatePoint(grey(10, 10), image.Pt(0, 0), Marker{Radius: 6, Color: color.RGBA{B: 255, A: 255}})
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(0, 0))
}

func TestCanvasAnnotateWritesPNG(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a.png")
	c := NewCanvas()

	got, err := c.Annotate(grey(30, 30), domain.PixelPoint{X: 10, Y: 10}, dst)
	require.NoError(t, err)

	loaded, err := c.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, got.Bounds(), loaded.Bounds())
	r, _, _, _ := loaded.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestEncodeForUploadShrinks(t *testing.T) {
	b, err := EncodeForUpload(grey(800, 400), 200)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	b, err = EncodeForUpload(grey(80, 40), 200)
	require.NoError(t, err)
	img, err = jpeg.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI(grey(4, 4), 0)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	_, err = jpeg.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}
