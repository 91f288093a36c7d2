package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  zerolog.Level
	}{
		{name: "explicit level wins", env: "production", level: "WARN", want: zerolog.WarnLevel},
		{name: "development defaults to debug", env: "development", want: zerolog.DebugLevel},
		{name: "production defaults to info", env: "production", want: zerolog.InfoLevel},
		{name: "bad level falls back", env: "production", level: "loud", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.env)
			t.Setenv("LOG_LEVEL", tt.level)
			if got := levelFromEnv(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
