package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		env       string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "production info", level: "info", env: "prod", wantLevel: zapcore.InfoLevel},
		{name: "development debug", level: "debug", env: "dev", wantLevel: zapcore.DebugLevel},
		{name: "upper case level", level: "WARN", env: "prod", wantLevel: zapcore.WarnLevel},
		{name: "unknown level", level: "loud", env: "prod", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.env)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.wantLevel))
			assert.False(t, log.Core().Enabled(tt.wantLevel-1))
		})
	}
}
