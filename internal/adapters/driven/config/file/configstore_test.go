package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFile), store.Path())
}

func TestNewConfigStore_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("falcon.base_url", "us-2"))

	val, ok := store.Get("falcon.base_url")
	assert.True(t, ok)
	assert.Equal(t, "us-2", val)

	_, ok = store.Get("falcon.missing")
	assert.False(t, ok)
	_, ok = store.Get("falcon.base_url.deeper")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a.str", "hello"))
	require.NoError(t, store.Set("a.num", int64(42)))
	require.NoError(t, store.Set("a.flag", true))
	require.NoError(t, store.Set("a.table", map[string]any{"https": "http://proxy:8080", "n": 1}))

	assert.Equal(t, "hello", store.GetString("a.str"))
	assert.Equal(t, 42, store.GetInt("a.num"))
	assert.True(t, store.GetBool("a.flag"))
	assert.Equal(t, map[string]string{"https": "http://proxy:8080"}, store.GetStringMap("a.table"))

	// Wrong types fall back to zero values.
	assert.Equal(t, "", store.GetString("a.num"))
	assert.Equal(t, 0, store.GetInt("a.str"))
	assert.False(t, store.GetBool("a.str"))
	assert.Nil(t, store.GetStringMap("a.str"))
}

func TestConfigStore_SetNilRemoves(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("falcon.user_agent", "agent/1"))
	require.NoError(t, store.Set("falcon.user_agent", nil))

	_, ok := store.Get("falcon.user_agent")
	assert.False(t, ok)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("falcon.base_url", "eu-1"))
	require.NoError(t, store1.Set("falcon.timeout.total", 30.5))
	require.NoError(t, store1.Save())

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[falcon]")

	info, err := os.Stat(store1.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "eu-1", store2.GetString("falcon.base_url"))
	val, ok := store2.Get("falcon.timeout.total")
	require.True(t, ok)
	assert.Equal(t, 30.5, val)
}

func TestConfigStore_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	content := "[falcon]\nbase_url = \"us-gov-1\"\nrenew_window = 300\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "us-gov-1", store.GetString("falcon.base_url"))
	assert.Equal(t, 300, store.GetInt("falcon.renew_window"))
}
