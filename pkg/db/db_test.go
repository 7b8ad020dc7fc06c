package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLogMode(t *testing.T) {
	tests := []struct {
		level    string
		expected logger.LogLevel
	}{
		{"debug", logger.Info},
		{"warn", logger.Warn},
		{"error", logger.Error},
		{"info", logger.Silent},
		{"", logger.Silent},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, LogMode(tt.level))
		})
	}
}

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
