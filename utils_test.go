package lottery

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRangeUtils(t *testing.T) {
	tests := []struct {
		name        string
		min         int
		max         int
		expectError bool
	}{
		{"valid_range", 1, 100, false},
		{"equal_values", 5, 5, false},
		{"invalid_range", 100, 1, true},
		{"negative_range", -10, -5, false},
		{"mixed_range", -5, 10, false},
		{"zero_range", 0, 0, false},
		{"large_range", 1, 1000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.min, tt.max)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCountUtils(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		expectError bool
	}{
		{"valid_count", 1, false},
		{"valid_large_count", 1000, false},
		{"zero_count", 0, true},
		{"negative_count", -1, true},
		{"negative_large_count", -100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCount(tt.count)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidCount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDrawUtils(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		count   int
		wantErr error
	}{
		{"whole_range", 1, 6, 6, nil},
		{"single_value", 7, 7, 1, nil},
		{"one_too_many", 1, 6, 7, ErrRangeExhausted},
		{"inverted", 10, 1, 1, ErrInvalidRange},
		{"zero_count", 1, 10, 0, ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraw(tt.min, tt.max, tt.count)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func BenchmarkValidateRange(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateRange(1, 45)
	}
}

func BenchmarkValidateCount(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateCount(6)
	}
}

// ================================================================================
// Logger Tests
// ================================================================================

func TestSilentLogger(t *testing.T) {
	logger := NewSilentLogger()

	// 测试所有方法都不会panic
	assert.NotPanics(t, func() {
		for i := 0; i < 100; i++ {
			logger.Info("info %d", i)
			logger.Error("error %d", i)
			logger.Debug("debug %d", i)
		}
	})

	t.Run("空消息", func(t *testing.T) {
		assert.NotPanics(t, func() {
			logger.Info("")
			logger.Error("")
			logger.Debug("")
		})
	})

	t.Run("长消息", func(t *testing.T) {
		longMessage := strings.Repeat("a", 10000)
		assert.NotPanics(t, func() {
			logger.Info("%s", longMessage)
			logger.Error("%s", longMessage)
			logger.Debug("%s", longMessage)
		})
	})
}

func TestDefaultLogger(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewDefaultLoggerWithOutput(&buf, "info")

		logger.Debug("hidden %d", 1)
		logger.Info("drew %d numbers", 6)
		logger.Error("share failed: %v", "boom")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "drew 6 numbers")
		assert.Contains(t, out, "share failed: boom")
		assert.Contains(t, out, "level=error")
		assert.Contains(t, out, "component=lottopick")
	})

	t.Run("debug_level", func(t *testing.T) {
		var buf bytes.Buffer
		NewDefaultLoggerWithOutput(&buf, "debug").Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("unknown_level_falls_back_to_info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewDefaultLoggerWithOutput(&buf, "chatty")
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("with_field", func(t *testing.T) {
		var buf bytes.Buffer
		NewDefaultLoggerWithOutput(&buf, "info").WithField("game", "kr-lotto645").Info("selected")
		assert.Contains(t, buf.String(), "game=kr-lotto645")
	})
}

// 性能基准测试
func BenchmarkSilentLogger(b *testing.B) {
	logger := NewSilentLogger()

	b.Run("Info", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("benchmark info message %d", i)
		}
	})

	b.Run("Debug", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Debug("benchmark debug message %d", i)
		}
	})
}

func BenchmarkDefaultLogger(b *testing.B) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerWithOutput(&buf, "info")

	b.Run("Info", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			buf.Reset()
			logger.Info("benchmark info message %d", i)
		}
	})

	b.Run("Debug_filtered", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Debug("benchmark debug message %d", i)
		}
	})
}
