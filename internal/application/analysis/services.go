package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/pothole-analyzer/internal/application"
	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
)

// DefaultPrompt is sent to the detector when Service.Prompt is empty.
const DefaultPrompt = "a pothole in the pavement or asphalt road surface"

// Service implements use-case analisa pothole per koordinat.
// Geocoder and Repo are optional.
type Service struct {
	Imagery    domain.Imagery
	Geocoder   domain.Geocoder
	Detector   vision.Detector
	Canvas     domain.Canvas
	Images     domain.ImageStore
	Repo       domain.Repository
	Clock      application.Clock
	ScratchDir string
	Prompt     string
}

// Analyze fetches imagery for c, runs detection and, when something is
// found, annotates the first hit and asks for a point judgment on it.
// Steps run sequentially; the first error aborts the whole analysis.
func (s *Service) Analyze(ctx context.Context, c domain.Coordinates) (*domain.Result, error) {
	res, err := s.analyze(ctx, c)
	s.record(ctx, c, res, err)
	return res, err
}

func (s *Service) analyze(ctx context.Context, c domain.Coordinates) (*domain.Result, error) {
	if err := os.MkdirAll(s.ScratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	imageURL, err := s.Imagery.URL(c)
	if err != nil {
		return nil, err
	}
	imagePath := filepath.Join(s.ScratchDir, c.Key()+".jpg")
	if err := s.Imagery.Download(ctx, imageURL, imagePath); err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}

	img, err := s.Canvas.Load(imagePath)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	prompt := s.prompt()
	det, err := s.Detector.Detect(ctx, img, prompt)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	objects := det.Objects
	if objects == nil {
		objects = []vision.Detection{}
	}

	res := &domain.Result{
		ID:            uuid.New().String(),
		Location:      c,
		StreetViewURL: imageURL,
		Analysis: domain.Summary{
			PotholesDetected: len(objects),
			DetectionDetails: objects,
			Status:           domain.StatusCompleted,
		},
	}

	if s.Geocoder != nil {
		addr, err := s.Geocoder.ReverseGeocode(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("reverse geocode: %w", err)
		}
		res.Address = addr
	}

	if len(objects) == 0 {
		return res, nil
	}

	// hanya deteksi pertama yang ditandai
	b := img.Bounds()
	center := objects[0].Center(b.Dx(), b.Dy())
	at := domain.PixelPoint{X: center.X, Y: center.Y}

	annotatedName := c.Key() + "-annotated.png"
	annotatedPath := filepath.Join(s.ScratchDir, annotatedName)
	annotated, err := s.Canvas.Annotate(img, at, annotatedPath)
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}

	point, err := s.Detector.Point(ctx, annotated, prompt)
	if err != nil {
		return nil, fmt.Errorf("point: %w", err)
	}

	url, err := s.Images.Publish(ctx, annotatedPath, annotatedName)
	if err != nil {
		return nil, fmt.Errorf("publish annotated image: %w", err)
	}

	res.Analysis.CenterPoint = &at
	res.Analysis.PointAnalysis = &point
	res.Analysis.AnnotatedImagePath = url
	return res, nil
}

// record simpan hasil ke history kalau repo ada; gagal simpan cuma di-log
func (s *Service) record(ctx context.Context, c domain.Coordinates, res *domain.Result, runErr error) {
	if s.Repo == nil {
		return
	}

	rec := &domain.Record{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		CreatedAt: s.now(),
	}
	var payload any
	if runErr != nil {
		rec.ID = uuid.New().String()
		rec.Status = domain.StatusFailed
		rec.Error = runErr.Error()
		payload = domain.NewFailure(c, runErr)
	} else {
		rec.ID = res.ID
		rec.Status = res.Analysis.Status
		rec.PotholesDetected = res.Analysis.PotholesDetected
		payload = res
	}

	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("analysis history marshal failed id=%s err=%v", rec.ID, err)
		return
	}
	rec.Result = string(b)

	if err := s.Repo.Save(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("analysis history save failed id=%s err=%v", rec.ID, err)
	}
}

// History returns one page of past analyses, newest first.
func (s *Service) History(ctx context.Context, page, pageSize int) (*domain.PaginatedResult, error) {
	if s.Repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	list, err := s.Repo.Paginate(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Record{}
	}
	return &domain.PaginatedResult{Data: list, Page: page, PageSize: pageSize}, nil
}

func (s *Service) prompt() string {
	if s.Prompt == "" {
		return DefaultPrompt
	}
	return s.Prompt
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}
