package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophboard/internal/logging"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	before := otel.GetTracerProvider()

	shutdown := Setup(context.Background(), "board-cli", "test", logging.Discard())

	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
	require.Equal(t, before, otel.GetTracerProvider())
}

func TestSetup_InstallsProvider(t *testing.T) {
	t.Setenv(EndpointEnv, "127.0.0.1:4317")
	t.Setenv(InsecureEnv, "true")
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown := Setup(context.Background(), "board-cli", "test", logging.Discard())

	_, ok := otel.GetTracerProvider().(*trace.TracerProvider)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
