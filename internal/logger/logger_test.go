package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileOutputRespectsLevel(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "render.log")

	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	if err := InitWithFileConfig("warn", cfg, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { Log = zap.NewNop(); Sugar = Log.Sugar() })

	Named("engine").Info("hidden message")
	Named("engine").Warn("visible message", zap.Int("row", 7))
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden message") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(content, "visible message") {
		t.Error("warn entry missing")
	}
	if !strings.Contains(content, `"logger":"engine"`) || !strings.Contains(content, `"row":7`) {
		t.Errorf("expected structured fields, got %s", content)
	}
}

func TestDefaultIsNop(t *testing.T) {
	// Must not panic before Init.
	Log.Info("ignored")
	Sugar.Infof("ignored %d", 1)
	Sync()
}
