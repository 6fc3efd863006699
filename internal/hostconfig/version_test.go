package hostconfig

import (
	"errors"
	"strings"
	"testing"
)

func TestIsCompatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		want    bool
	}{
		{"4.10.0", true},
		{"4.10.2", true},
		{"v4.14.5", true},
		{"5.0.0", true},
		{"4.9.9", false},
		{"3.12.2", false},
		{"4.10.0-beta.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			got, err := IsCompatible(tt.version)
			if err != nil {
				t.Fatalf("IsCompatible(%q) error: %v", tt.version, err)
			}
			if got != tt.want {
				t.Errorf("IsCompatible(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestIsCompatibleInvalid(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "latest", "4.x"} {
		if _, err := IsCompatible(v); !errors.Is(err, ErrInvalidVersion) {
			t.Errorf("IsCompatible(%q) error = %v, want ErrInvalidVersion", v, err)
		}
	}
}

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	cfg := &Config{JHipsterVersion: "4.10.2"}
	if msg := cfg.CheckVersion(); msg != "" {
		t.Errorf("CheckVersion() = %q, want empty for a supported version", msg)
	}

	cfg.JHipsterVersion = "4.5.1"
	msg := cfg.CheckVersion()
	if !strings.Contains(msg, "old JHipster version (4.5.1)") || !strings.Contains(msg, MinimumJHipsterVersion) {
		t.Errorf("CheckVersion() = %q, want old-version warning", msg)
	}
}
