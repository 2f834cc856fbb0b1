// Command fetch-reports pulls recent pothole complaints from NYC 311 and
// overwrites the local snapshot served by the API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	appreports "github.com/bryanwahyu/pothole-analyzer/internal/application/reports"
	"github.com/bryanwahyu/pothole-analyzer/internal/config"
	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/opendata"
	"github.com/bryanwahyu/pothole-analyzer/internal/infra/snapshot"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	flag.StringVar(&path, "config", path, "path to config.yaml")
	limit := flag.Int("limit", 0, "max reports to fetch (0 = config value)")
	out := flag.String("out", "", "snapshot path (default from config)")
	flag.Parse()

	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if *limit > 0 {
		cfg.OpenData.Limit = *limit
	}
	if *out != "" {
		cfg.Data.SnapshotPath = *out
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := &appreports.Service{
		Source:    opendata.NewClient(cfg.OpenData.Endpoint, cfg.OpenData.AppToken, cfg.OpenData.Timeout),
		Snapshots: snapshot.NewFileStore(cfg.Data.SnapshotPath),
		Query:     domain.DefaultQuery(cfg.OpenData.Limit),
	}

	res, err := svc.Refresh(ctx)
	if err != nil {
		log.Printf("fetch failed: %v", err)
		stop()
		os.Exit(1)
	}
	if res.Written {
		log.Printf("done path=%s reports=%d", cfg.Data.SnapshotPath, res.Count)
	}
}
