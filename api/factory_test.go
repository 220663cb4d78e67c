package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	b, err := NewBackend("memory", "", "", 0)
	require.NoError(t, err)
	require.IsType(t, &Memory{}, b)

	b, err = NewBackend("mem", "", "", 0)
	require.NoError(t, err)
	require.IsType(t, &Memory{}, b)

	b, err = NewBackend("http", "http://localhost:8080", "", 5*time.Second)
	require.NoError(t, err)
	require.IsType(t, &Client{}, b)

	b, err = NewBackend("file", "", filepath.Join(t.TempDir(), "p.json"), 0)
	require.NoError(t, err)
	require.IsType(t, &File{}, b)
}

func TestNewBackendErrors(t *testing.T) {
	_, err := NewBackend("http", "", "", 0)
	require.Error(t, err)

	_, err = NewBackend("file", "", "", 0)
	require.Error(t, err)

	_, err = NewBackend("redis", "", "", 0)
	require.Error(t, err)
}
