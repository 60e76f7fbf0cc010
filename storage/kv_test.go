package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academia/config"
)

func openTestKV(t *testing.T) *KV {
	t.Helper()
	cfg := &config.Config{StoreDriver: "sqlite", StoreDSN: filepath.Join(t.TempDir(), "session.db")}
	kv, err := OpenKV(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKV_SetGetDelete(t *testing.T) {
	kv := openTestKV(t)

	_, ok, err := kv.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("token", "abc"))
	require.NoError(t, kv.Set("nombreUsuario", "Ana"))
	require.NoError(t, kv.Set("token", "def"))

	v, ok, err := kv.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)

	require.NoError(t, kv.Delete("token", "nombreUsuario"))
	_, ok, _ = kv.Get("token")
	assert.False(t, ok)
	_, ok, _ = kv.Get("nombreUsuario")
	assert.False(t, ok)

	assert.NoError(t, kv.Delete())
}

func TestKV_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	cfg := &config.Config{StoreDriver: "sqlite", StoreDSN: path}

	kv, err := OpenKV(cfg)
	require.NoError(t, err)
	require.NoError(t, kv.Set("token", "abc"))
	require.NoError(t, kv.Close())

	kv, err = OpenKV(cfg)
	require.NoError(t, err)
	defer kv.Close()
	v, ok, err := kv.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestOpenKV_UnknownDriver(t *testing.T) {
	_, err := OpenKV(&config.Config{StoreDriver: "redis"})
	assert.Error(t, err)
}
