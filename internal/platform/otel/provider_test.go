package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confcentral/internal/platform/config"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	for _, cfg := range []config.TelemetryConfig{
		{Enabled: true},
		{Enabled: false, Endpoint: "http://collector:4318"},
	} {
		shutdown, err := Setup(context.Background(), cfg)
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	}
}
