package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountIDContext(t *testing.T) {
	_, ok := AccountIDFrom(context.Background())
	require.False(t, ok)

	id, ok := AccountIDFrom(WithAccountID(context.Background(), 12))
	require.True(t, ok)
	require.Equal(t, 12, id)
}
