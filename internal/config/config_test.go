package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadCreatesDefaults(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	c := AppConfig
	if c.DatabasePath != filepath.Join(dir, "landmatch.db") {
		t.Errorf("DatabasePath = %q", c.DatabasePath)
	}
	if c.PredictionTimeout != 5*time.Second {
		t.Errorf("PredictionTimeout = %s, want 5s", c.PredictionTimeout)
	}
	if c.ShortlistLimit != 10 || c.AnalyticsSchedule != "@every 1h" || c.HTTPPort != ":8080" {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("LANDMATCH_SHORTLIST_LIMIT", "5")
	t.Setenv("LANDMATCH_REDIS_URL", "redis://localhost:6379/0")

	if err := Load(filepath.Join(t.TempDir(), "config.yaml")); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if AppConfig.ShortlistLimit != 5 {
		t.Errorf("ShortlistLimit = %d, want 5", AppConfig.ShortlistLimit)
	}
	if AppConfig.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", AppConfig.RedisURL)
	}
}

func TestSetPersists(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := Set("http_port", ":9090"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	viper.Reset()
	if err := Load(path); err != nil {
		t.Fatal(err)
	}
	if AppConfig.HTTPPort != ":9090" || Get("http_port") != ":9090" {
		t.Errorf("HTTPPort = %q after reload", AppConfig.HTTPPort)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{LogFormat: "text"}, false},
		{"json logs", Config{LogFormat: "json"}, false},
		{"negative limit", Config{ShortlistLimit: -1}, true},
		{"negative timeout", Config{PredictionTimeout: -time.Second}, true},
		{"unknown format", Config{LogFormat: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
