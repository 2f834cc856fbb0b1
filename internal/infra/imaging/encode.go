package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"
)

const uploadQuality = 90

// EncodeForUpload returns JPEG bytes of img, shrunk so neither side exceeds
// maxDim. maxDim 0 keeps the original size. Normalized model coordinates are
// unaffected by the shrink.
func EncodeForUpload(img image.Image, maxDim uint) ([]byte, error) {
	if maxDim > 0 {
		b := img.Bounds()
		if uint(b.Dx()) > maxDim || uint(b.Dy()) > maxDim {
			img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: uploadQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI encodes img as a base64 JPEG data URI for hosted model APIs.
func DataURI(img image.Image, maxDim uint) (string, error) {
	b, err := EncodeForUpload(img, maxDim)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b), nil
}
