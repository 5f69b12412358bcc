package observability

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFlushTelemetry_NilLogger(t *testing.T) {
	if err := FlushTelemetry(context.Background(), nil); err != nil {
		t.Errorf("FlushTelemetry(nil) = %v, want nil", err)
	}
}

func TestFlushTelemetry_Observer(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	if err := FlushTelemetry(context.Background(), zap.New(core)); err != nil {
		t.Errorf("FlushTelemetry() = %v, want nil", err)
	}
}

func TestFlushTelemetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FlushTelemetry(ctx, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FlushTelemetry() = %v, want context.Canceled", err)
	}
}
