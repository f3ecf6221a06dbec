package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

// syncBuffer adapts bytes.Buffer to zapcore.WriteSyncer.
type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "a11ygrade-test",
	}
}

func TestInitialize_WritesStructuredOutput(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(testLoggerConfig(), &buf)

	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("report written", zap.Int("score", 85))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"report written"`)
	assert.Contains(t, out, `"score":85`)
	assert.Contains(t, out, "a11ygrade-test")
}

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second syncBuffer
	Initialize(testLoggerConfig(), &first)
	Initialize(testLoggerConfig(), &second)

	GetLogger().Info("after double init")
	_ = GetLogger().Sync()

	assert.NotEmpty(t, first.String(), "the first initialization wins")
	assert.Empty(t, second.String())
}

func TestInitialize_InvalidLevelDefaultsToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "chatty"

	var buf syncBuffer
	Initialize(cfg, &buf)

	GetLogger().Debug("should be suppressed")
	GetLogger().Info("should appear")
	_ = GetLogger().Sync()

	out := buf.String()
	assert.NotContains(t, out, "should be suppressed")
	assert.Contains(t, out, "should appear")
}

func TestGetLogger_FallbackBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// The fallback is clearly named so misuse shows up in output.
	assert.True(t, strings.Contains(logger.Name(), "fallback"))
}

func TestSync_NoLoggerIsANoOp(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)
	Sync()
}
