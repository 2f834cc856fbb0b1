package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port          int      `yaml:"port"`
		PublicBaseURL string   `yaml:"publicBaseURL"`
		CORSOrigins   []string `yaml:"corsOrigins"`
		APIKeys       []string `yaml:"apiKeys"`
		RateLimit     struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Data struct {
		SnapshotPath string `yaml:"snapshotPath"`
		ScratchDir   string `yaml:"scratchDir"`
	} `yaml:"data"`

	OpenData struct {
		Endpoint string        `yaml:"endpoint"`
		AppToken string        `yaml:"appToken"`
		Limit    int           `yaml:"limit"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"openData"`

	Imagery struct {
		APIKey          string        `yaml:"apiKey"`
		Source          string        `yaml:"source"` // streetview | satellite
		Size            string        `yaml:"size"`
		Heading         int           `yaml:"heading"`
		Pitch           int           `yaml:"pitch"`
		FOV             int           `yaml:"fov"`
		Zoom            int           `yaml:"zoom"`
		MapType         string        `yaml:"mapType"`
		DownloadTimeout time.Duration `yaml:"downloadTimeout"`
		ReverseGeocode  bool          `yaml:"reverseGeocode"`
	} `yaml:"imagery"`

	Vision struct {
		Provider     string        `yaml:"provider"` // moondream | openai
		APIKey       string        `yaml:"apiKey"`
		BaseURL      string        `yaml:"baseURL"`
		Model        string        `yaml:"model"`
		Prompt       string        `yaml:"prompt"`
		MaxDimension uint          `yaml:"maxDimension"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"vision"`

	Storage struct {
		Driver string `yaml:"driver"` // local | minio
		Minio  struct {
			Endpoint      string        `yaml:"endpoint"`
			AccessKey     string        `yaml:"accessKey"`
			SecretKey     string        `yaml:"secretKey"`
			BucketName    string        `yaml:"bucketName"`
			Region        string        `yaml:"region"`
			UseSSL        bool          `yaml:"useSSL"`
			PresignExpiry time.Duration `yaml:"presignExpiry"`
		} `yaml:"minio"`
	} `yaml:"storage"`

	// Database kosong = history analisa tidak disimpan
	Database struct {
		Driver   string `yaml:"driver"` // "" | mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`
}

// Load baca file config.yaml, lalu isi default dan override dari env
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config usable without a file; secrets still come from env.
func Default() *Config {
	var cfg Config
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_MAPS_KEY"); v != "" {
		c.Imagery.APIKey = v
	}
	switch c.visionProvider() {
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.Vision.APIKey = v
		}
	default:
		if v := os.Getenv("MD_API_KEY"); v != "" {
			c.Vision.APIKey = v
		}
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.PublicBaseURL == "" {
		c.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.Server.PublicBaseURL = strings.TrimRight(c.Server.PublicBaseURL, "/")
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.RateLimit.Capacity == 0 {
		c.Server.RateLimit.Capacity = 10
	}
	if c.Server.RateLimit.RefillRate == 0 {
		c.Server.RateLimit.RefillRate = 1
	}

	if c.Data.SnapshotPath == "" {
		c.Data.SnapshotPath = "pothole_reports.json"
	}
	if c.Data.ScratchDir == "" {
		c.Data.ScratchDir = "temp"
	}

	if c.OpenData.Endpoint == "" {
		c.OpenData.Endpoint = "https://data.cityofnewyork.us/resource/7dn9-uvry.json"
	}
	if c.OpenData.Limit <= 0 {
		c.OpenData.Limit = 100
	}
	if c.OpenData.Timeout == 0 {
		c.OpenData.Timeout = 30 * time.Second
	}

	if c.Imagery.Source == "" {
		c.Imagery.Source = "streetview"
	}
	if c.Imagery.Size == "" {
		c.Imagery.Size = "600x400"
	}
	if c.Imagery.FOV == 0 {
		c.Imagery.FOV = 80
	}
	if c.Imagery.Zoom == 0 {
		c.Imagery.Zoom = 18
	}
	if c.Imagery.MapType == "" {
		c.Imagery.MapType = "satellite"
	}
	if c.Imagery.DownloadTimeout == 0 {
		c.Imagery.DownloadTimeout = 10 * time.Second
	}

	c.Vision.Provider = c.visionProvider()
	if c.Vision.Prompt == "" {
		c.Vision.Prompt = "a pothole in the pavement or asphalt road surface"
	}
	if c.Vision.Timeout == 0 {
		c.Vision.Timeout = 60 * time.Second
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.Minio.PresignExpiry == 0 {
		c.Storage.Minio.PresignExpiry = 24 * time.Hour
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
}

func (c *Config) visionProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.Vision.Provider))
	if p == "" {
		return "moondream"
	}
	return p
}

// Validate checks the settings the API server cannot start without.
func (c *Config) Validate() error {
	if c.Imagery.APIKey == "" {
		return fmt.Errorf("imagery api key missing: set GOOGLE_MAPS_KEY")
	}
	switch c.Imagery.Source {
	case "streetview", "satellite":
	default:
		return fmt.Errorf("unknown imagery source %q (allowed: streetview, satellite)", c.Imagery.Source)
	}
	switch c.Vision.Provider {
	case "moondream":
		if c.Vision.APIKey == "" {
			return fmt.Errorf("vision api key missing: set MD_API_KEY")
		}
	case "openai":
		if c.Vision.APIKey == "" {
			return fmt.Errorf("vision api key missing: set OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown vision provider %q (allowed: moondream, openai)", c.Vision.Provider)
	}
	switch c.Storage.Driver {
	case "local", "minio":
	default:
		return fmt.Errorf("unknown storage driver %q (allowed: local, minio)", c.Storage.Driver)
	}
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q (allowed: mysql, postgres)", c.Database.Driver)
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
