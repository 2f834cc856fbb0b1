package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/pothole-analyzer/internal/application"
	appanalysis "github.com/bryanwahyu/pothole-analyzer/internal/application/analysis"
	appreports "github.com/bryanwahyu/pothole-analyzer/internal/application/reports"
	"github.com/bryanwahyu/pothole-analyzer/internal/config"
	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
	domreports "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/ai/moondream"
	openaivision "github.com/bryanwahyu/pothole-analyzer/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/pothole-analyzer/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/pothole-analyzer/internal/infra/db/postgres"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/httpserver"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/imagery/google"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/imaging"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/opendata"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/snapshot"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/storage"
	"github.com/bryanwahyu/pothole-analyzer/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	flag.StringVar(&path, "config", path, "path to config.yaml")
	flag.Parse()

	// load config; tanpa file tetap jalan pakai default + env
	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		log.Printf("config file not found path=%s, using defaults", path)
		cfg, err = config.Default(), nil
	}
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()

	checkers := map[string]middleware.HealthChecker{
		"scratch_dir": &middleware.DirHealthChecker{Dir: cfg.Data.ScratchDir},
	}

	// history (opsional)
	var repo domain.Repository
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = pgp.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db.DB}
	default:
		log.Printf("database not configured, analysis history disabled")
	}

	// init image store
	var images domain.ImageStore
	imagesDir := ""
	switch cfg.Storage.Driver {
	case "minio":
		m := cfg.Storage.Minio
		store, err := storage.NewMinio(ctx, m.Endpoint, m.Region, m.BucketName, m.AccessKey, m.SecretKey, m.UseSSL, m.PresignExpiry)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		images = store
	default:
		images = storage.NewLocal(cfg.Data.ScratchDir, cfg.Server.PublicBaseURL)
		imagesDir = cfg.Data.ScratchDir
	}

	imagery := google.NewClient(google.Options{
		APIKey:  cfg.Imagery.APIKey,
		Source:  google.Source(cfg.Imagery.Source),
		Size:    cfg.Imagery.Size,
		Heading: cfg.Imagery.Heading,
		Pitch:   cfg.Imagery.Pitch,
		FOV:     cfg.Imagery.FOV,
		Zoom:    cfg.Imagery.Zoom,
		MapType: cfg.Imagery.MapType,
		Timeout: cfg.Imagery.DownloadTimeout,
	})

	var geocoder domain.Geocoder
	if cfg.Imagery.ReverseGeocode {
		g, err := google.NewGeocoder(cfg.Imagery.APIKey)
		if err != nil {
			log.Fatalf("geocoder init error: %v", err)
		}
		geocoder = g
	}

	analysisSvc := &appanalysis.Service{
		Imagery:    imagery,
		Geocoder:   geocoder,
		Detector:   newDetector(cfg),
		Canvas:     imaging.NewCanvas(),
		Images:     images,
		Repo:       repo,
		Clock:      application.SystemClock{},
		ScratchDir: cfg.Data.ScratchDir,
		Prompt:     cfg.Vision.Prompt,
	}
	reportsSvc := &appreports.Service{
		Source:    opendata.NewClient(cfg.OpenData.Endpoint, cfg.OpenData.AppToken, cfg.OpenData.Timeout),
		Snapshots: snapshot.NewFileStore(cfg.Data.SnapshotPath),
		Query:     domreports.DefaultQuery(cfg.OpenData.Limit),
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Stop()

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(reportsSvc, analysisSvc, httpserver.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		APIKeys:        cfg.Server.APIKeys,
		RateLimiter:    limiter,
		ImagesDir:      imagesDir,
		HealthCheckers: checkers,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// analyzer menunggu download + 2 panggilan vision
		WriteTimeout: cfg.Imagery.DownloadTimeout + 2*cfg.Vision.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s vision=%s imagery=%s storage=%s", addr, cfg.Vision.Provider, cfg.Imagery.Source, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newDetector(cfg *config.Config) vision.Detector {
	httpClient := &http.Client{Timeout: cfg.Vision.Timeout}
	switch cfg.Vision.Provider {
	case "openai":
		c := openaivision.NewClientWithBaseURL(cfg.Vision.APIKey, cfg.Vision.BaseURL, cfg.Vision.Model, httpClient)
		c.MaxDimension = cfg.Vision.MaxDimension
		return c
	default:
		c := moondream.NewClient(cfg.Vision.APIKey, cfg.Vision.BaseURL, cfg.Vision.Timeout)
		c.MaxDimension = cfg.Vision.MaxDimension
		return c
	}
}
