package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_FormatSelection(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"json", "info", "json"},
		{"console", "debug", "console"},
		{"default format", "warn", ""},
		{"unknown format falls back to json", "error", "logfmt"},
		{"unknown level falls back to info", "verbose", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.format)
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}
