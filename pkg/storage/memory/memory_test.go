package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/storage/memory"
)

func TestValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	in := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", in))
	in[0] = 'z'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestNewWith(t *testing.T) {
	s := memory.NewWith(map[string]string{"favorites": "not json"})
	got, err := s.Get(context.Background(), "favorites")
	require.NoError(t, err)
	assert.Equal(t, "not json", string(got))
}

func TestClosed(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.Close())
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, errors.ErrClosed)
	assert.ErrorIs(t, s.Put(context.Background(), "k", nil), errors.ErrClosed)
}
