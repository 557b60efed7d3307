package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/strata/internal/adapters/telemetry"
	"go.trai.ch/strata/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func collectDebugLines(t *testing.T) (*mocks.MockLogger, *[]string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Debug(gomock.Any()).DoAndReturn(func(msg string) {
		lines = append(lines, msg)
	}).AnyTimes()

	return log, &lines
}

func TestBridge_ForwardsSpanLifecycle(t *testing.T) {
	log, lines := collectDebugLines(t)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(log)),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "resolve")
	span.End()

	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], "resolve started")
	assert.Contains(t, (*lines)[1], "resolve completed")
}

func TestBridge_ReportsFailedSpans(t *testing.T) {
	log, lines := collectDebugLines(t)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(log)),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	otel.SetTracerProvider(tp)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "lock")
	span.SetAttribute("layers", 3)
	span.RecordError(errors.New("store unavailable"))
	span.End()

	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[1], "lock failed")
	assert.Contains(t, (*lines)[1], "store unavailable")
}

func TestBridge_NilLoggerIsSafe(t *testing.T) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	span.End()
}
