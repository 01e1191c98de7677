package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(ctx, "boards/board.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "boards/board.yaml", []byte("name: Goals\n")))
	data, err := s.Read(ctx, "boards/board.yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: Goals\n", string(data))

	require.NoError(t, s.Write(ctx, "boards/board.yaml", []byte("name: Launch\n")))
	data, err = s.Read(ctx, "boards/board.yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: Launch\n", string(data))
}

func TestLocalStorage_LeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "boards/board.yaml", []byte("x")))
	entries, err := os.ReadDir(filepath.Join(base, "boards"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "board.yaml", entries[0].Name())
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../escape.yaml", []byte("x")))
	_, err = os.Stat(filepath.Join(base, "escape.yaml"))
	require.NoError(t, err)

	data, err := s.Read(ctx, "escape.yaml")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
