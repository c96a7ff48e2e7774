package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	shutdown, err := InitTracer(ctx, "", "slideflow-test")
	require.NoError(t, err)

	_, span := Tracer().Start(ctx, "keyframes")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}

func TestInitTracerWithEndpoint(t *testing.T) {
	ctx := context.Background()

	shutdown, err := InitTracer(ctx, "http://127.0.0.1:4318/v1/traces", "slideflow-test")
	require.NoError(t, err)
	assert.NotNil(t, shutdown)
}
