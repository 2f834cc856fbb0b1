package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/pothole-analyzer/internal/application"
	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/imaging"
)

type fakeImagery struct {
	err     error
	w, h    int
	gotURL  string
	gotPath string
}

func (f *fakeImagery) URL(c domain.Coordinates) (string, error) {
	return "https://maps.example/streetview?location=" + c.Key(), nil
}

func (f *fakeImagery) Download(_ context.Context, url, dst string) error {
	f.gotURL, f.gotPath = url, dst
	if f.err != nil {
		return f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	return jpeg.Encode(out, img, nil)
}

type fakeDetector struct {
	objects   []vision.Detection
	detectErr error
	points    []vision.Point
	detectN   int
	pointN    int
	pointImg  image.Image
	prompt    string
}

func (f *fakeDetector) Detect(_ context.Context, _ image.Image, object string) (vision.DetectResult, error) {
	f.detectN++
	f.prompt = object
	return vision.DetectResult{Objects: f.objects}, f.detectErr
}

func (f *fakeDetector) Point(_ context.Context, img image.Image, _ string) (vision.PointResult, error) {
	f.pointN++
	f.pointImg = img
	return vision.PointResult{Points: f.points, RequestID: "req-1"}, nil
}

type fakeStore struct {
	localPath, key string
}

func (f *fakeStore) Publish(_ context.Context, localPath, key string) (string, error) {
	f.localPath, f.key = localPath, key
	return "http://localhost:8000/images/" + key, nil
}

type fakeRepo struct {
	saved   []*domain.Record
	saveErr error
	list    []*domain.Record
	page    int
	size    int
}

func (f *fakeRepo) Save(_ context.Context, r *domain.Record) error {
	f.saved = append(f.saved, r)
	return f.saveErr
}

func (f *fakeRepo) Paginate(_ context.Context, page, pageSize int) ([]*domain.Record, error) {
	f.page, f.size = page, pageSize
	return f.list, nil
}

type fakeGeocoder struct{ addr string }

func (f fakeGeocoder) ReverseGeocode(context.Context, domain.Coordinates) (string, error) {
	return f.addr, nil
}

func newService(t *testing.T, img *fakeImagery, det *fakeDetector) (*Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	return &Service{
		Imagery:    img,
		Detector:   det,
		Canvas:     imaging.NewCanvas(),
		Images:     store,
		Clock:      application.FixedClock{T: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		ScratchDir: filepath.Join(t.TempDir(), "temp"),
	}, store
}

func TestAnalyzeNoDetections(t *testing.T) {
	img := &fakeImagery{w: 600, h: 400}
	det := &fakeDetector{}
	svc, store := newService(t, img, det)

	c := domain.Coordinates{Latitude: 40.7128, Longitude: -74.006}
	res, err := svc.Analyze(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, c, res.Location)
	assert.Equal(t, "https://maps.example/streetview?location=40.7128--74.006", res.StreetViewURL)
	assert.Equal(t, filepath.Join(svc.ScratchDir, "40.7128--74.006.jpg"), img.gotPath)
	assert.Equal(t, DefaultPrompt, det.prompt)
	assert.Equal(t, 0, res.Analysis.PotholesDetected)
	assert.NotNil(t, res.Analysis.DetectionDetails)
	assert.Equal(t, domain.StatusCompleted, res.Analysis.Status)
	assert.Nil(t, res.Analysis.CenterPoint)
	assert.Nil(t, res.Analysis.PointAnalysis)
	assert.Empty(t, res.Analysis.AnnotatedImagePath)
	assert.Equal(t, 0, det.pointN)
	assert.Empty(t, store.key)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"detection_details":[]`)
	assert.NotContains(t, string(b), "center_point")
}

func TestAnalyzeAnnotatesFirstDetection(t *testing.T) {
	img := &fakeImagery{w: 600, h: 400}
	det := &fakeDetector{
		objects: []vision.Detection{
			{XMin: 0.1, YMin: 0.2, XMax: 0.3, YMax: 0.4},
			{XMin: 0.5, YMin: 0.5, XMax: 0.9, YMax: 0.9},
		},
		points: []vision.Point{{X: 0.2, Y: 0.3}},
	}
	svc, store := newService(t, img, det)

	c := domain.Coordinates{Latitude: 40.7, Longitude: -73.9}
	res, err := svc.Analyze(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Analysis.PotholesDetected)
	require.NotNil(t, res.Analysis.CenterPoint)
	assert.Equal(t, domain.PixelPoint{X: 120, Y: 120}, *res.Analysis.CenterPoint)
	require.NotNil(t, res.Analysis.PointAnalysis)
	assert.Equal(t, []vision.Point{{X: 0.2, Y: 0.3}}, res.Analysis.PointAnalysis.Points)
	assert.Equal(t, "http://localhost:8000/images/40.7--73.9-annotated.png", res.Analysis.AnnotatedImagePath)
	assert.Equal(t, 1, det.pointN)

	annotated := filepath.Join(svc.ScratchDir, "40.7--73.9-annotated.png")
	assert.Equal(t, annotated, store.localPath)
	assert.FileExists(t, annotated)

	// marker merah di titik tengah
	r, g, b, _ := det.pointImg.At(120, 120).RGBA()
	assert.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}

func TestAnalyzeDownloadFailure(t *testing.T) {
	img := &fakeImagery{err: errors.New("status 403")}
	det := &fakeDetector{}
	svc, _ := newService(t, img, det)
	repo := &fakeRepo{}
	svc.Repo = repo

	c := domain.Coordinates{Latitude: 1, Longitude: 2}
	res, err := svc.Analyze(context.Background(), c)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, 0, det.detectN)

	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.NotEmpty(t, rec.ID)
	assert.Contains(t, rec.Result, `"status":"failed"`)
	assert.Contains(t, rec.Result, "Analysis failed: ")
}

func TestAnalyzeDetectError(t *testing.T) {
	img := &fakeImagery{w: 10, h: 10}
	det := &fakeDetector{detectErr: vision.ErrQuotaExceeded}
	svc, _ := newService(t, img, det)

	_, err := svc.Analyze(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.ErrorIs(t, err, vision.ErrQuotaExceeded)
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	img := &fakeImagery{w: 100, h: 100}
	det := &fakeDetector{objects: []vision.Detection{{XMin: 0, YMin: 0, XMax: 1, YMax: 1}}}
	svc, _ := newService(t, img, det)
	repo := &fakeRepo{saveErr: errors.New("db down")}
	svc.Repo = repo
	svc.Geocoder = fakeGeocoder{addr: "Broadway, New York"}

	res, err := svc.Analyze(context.Background(), domain.Coordinates{Latitude: 40.7, Longitude: -74})
	require.NoError(t, err, "save failure must not fail the analysis")
	assert.Equal(t, "Broadway, New York", res.Address)

	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, res.ID, rec.ID)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
	assert.Equal(t, 1, rec.PotholesDetected)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), rec.CreatedAt)

	var decoded domain.Result
	require.NoError(t, json.Unmarshal([]byte(rec.Result), &decoded))
	assert.Equal(t, res.ID, decoded.ID)
}

func TestHistory(t *testing.T) {
	svc := &Service{}
	_, err := svc.History(context.Background(), 1, 10)
	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)

	repo := &fakeRepo{}
	svc.Repo = repo

	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"defaults", 0, 0, 1, 20},
		{"explicit", 3, 5, 3, 5},
		{"capped", 1, 500, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.History(context.Background(), tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
			assert.Equal(t, tt.wantPage, repo.page)
			assert.Equal(t, tt.wantSize, repo.size)
			assert.NotNil(t, got.Data)
		})
	}
}
