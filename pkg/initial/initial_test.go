package initial

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursedash/pkg/config"
	"coursedash/pkg/storage"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadEnvComp(t *testing.T) {
	t.Run("missing file is reported", func(t *testing.T) {
		chdir(t, t.TempDir())
		assert.Error(t, LoadEnvComp())
	})
	t.Run("file fills unset variables", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COURSEDASH_FROM_FILE=from-file\nPORT=1111\n"), 0o600))
		chdir(t, dir)
		t.Setenv("PORT", "2222")
		t.Setenv("COURSEDASH_FROM_FILE", "")
		os.Unsetenv("COURSEDASH_FROM_FILE")

		require.NoError(t, LoadEnvComp())
		assert.Equal(t, "from-file", os.Getenv("COURSEDASH_FROM_FILE"))
		assert.Equal(t, "2222", os.Getenv("PORT"))
	})
}

func TestOpenSlotsMemory(t *testing.T) {
	slots, err := OpenSlots(context.Background(), &config.Config{StorageBackend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, slots)

	_, err = OpenSlots(context.Background(), &config.Config{StorageBackend: "mongo"})
	assert.Error(t, err)
}

func TestOptionalAdaptersAreOff(t *testing.T) {
	cfg := &config.Config{UploadBackend: "none"}

	es, err := InitES(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, es)

	objects, err := InitObjects(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, objects)

	assert.Nil(t, InitKafka(cfg, zerolog.Nop()))
}
