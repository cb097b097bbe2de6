package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// testWriter forwards every encoded entry to the test's `Log` method so output is attributed to the
// running test, including tests calling `t.Parallel()`.
type testWriter struct {
	tb testing.TB
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.tb.Helper()
	tw.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (tw testWriter) Sync() error {
	return nil
}

func newTestCore(tb testing.TB) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(NewZapEncoderConfig(false)),
		testWriter{tb},
		zapcore.DebugLevel,
	)
}
