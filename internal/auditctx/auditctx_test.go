package auditctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOriginRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	ctx := WithOrigin(context.Background(), Origin{RequestID: "req-1", IPAddress: "10.0.0.1"})
	origin, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "req-1", origin.RequestID)
	require.Equal(t, "10.0.0.1", origin.IPAddress)
}

func TestWithOriginNilContext(t *testing.T) {
	//nolint:staticcheck
	ctx := WithOrigin(nil, Origin{UserAgent: "curl"})
	origin, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "curl", origin.UserAgent)
}
