package tokengate

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func Test_ZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	logger.Debugf("token validated in %s", "1ms")
	logger.Warnf("token validation failed: %v", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "token validated in 1ms", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func Test_ZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Infof("skipping validation for excluded URL %s", "/healthz")

	assert.Contains(t, buf.String(), "skipping validation for excluded URL /healthz")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func Test_LogrusLogger(t *testing.T) {
	base, hook := logrustest.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := NewLogrusLogger(base)

	logger.Errorf("verification with key %d failed", 2)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "verification with key 2 failed", hook.LastEntry().Message)
}
