package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func TestInitAppendsToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatalf("seed log file: %v", err)
	}

	cfg := &config.AppConfig{LogLevel: "debug", Environment: "development", LogFile: path}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() err=%v", err)
	}
	t.Cleanup(Close)

	Get().WithField("cycle_id", "abc").Info("Программа работает без сбоев")
	Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "previous run\n") {
		t.Fatalf("log file was truncated: %q", content)
	}
	for _, want := range []string{"level=info", "Программа работает без сбоев", "cycle_id=abc"} {
		if !strings.Contains(content, want) {
			t.Fatalf("log file %q does not contain %q", content, want)
		}
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("log file contains colour codes: %q", content)
	}
	if Log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level=%s, want debug", Log.GetLevel())
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	if err := Init(&config.AppConfig{LogLevel: "loud", Environment: "production"}); err != nil {
		t.Fatalf("Init() err=%v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level=%s, want info", Log.GetLevel())
	}
	if _, ok := Log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("formatter=%T, want JSON in production", Log.Formatter)
	}
}

func TestInitUnwritableLogFile(t *testing.T) {
	cfg := &config.AppConfig{LogLevel: "info", LogFile: filepath.Join(t.TempDir(), "missing", "main.log")}
	if err := Init(cfg); err == nil {
		t.Fatal("Init() err=nil, want error for missing directory")
	}
}
