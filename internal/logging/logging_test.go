package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    hclog.Level
		wantErr bool
	}{
		{name: "default info", opts: Options{}, want: hclog.Info},
		{name: "explicit warn", opts: Options{Level: "warn"}, want: hclog.Warn},
		{name: "verbose raises info", opts: Options{Level: "info", Verbose: true}, want: hclog.Debug},
		{name: "verbose keeps trace", opts: Options{Level: "trace", Verbose: true}, want: hclog.Trace},
		{name: "verbose overrides off", opts: Options{Level: "off", Verbose: true}, want: hclog.Debug},
		{name: "case insensitive", opts: Options{Level: "ERROR"}, want: hclog.Error},
		{name: "unknown", opts: Options{Level: "chatty"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Output = &bytes.Buffer{}
			logger, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("New() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWithoutOutputIsSilent(t *testing.T) {
	logger, err := New(Options{Level: "trace"})
	if err != nil {
		t.Fatal(err)
	}
	if logger.GetLevel() != hclog.Off {
		t.Errorf("level = %v, want off", logger.GetLevel())
	}
}

func TestNamedSubLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Named("session").Info("extraction started", "colors", 5)

	line := buf.String()
	if !strings.Contains(line, "brandstream.session") || !strings.Contains(line, "colors=5") {
		t.Errorf("log line = %q", line)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, JSON: true})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("clipboard write failed", "error", "denied")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry["@message"] != "clipboard write failed" || entry["error"] != "denied" {
		t.Errorf("entry = %v", entry)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "brandstream.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	logger, _ := New(Options{Output: f})
	logger.Info("hello")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}
