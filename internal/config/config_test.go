package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yuletide.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestMissingFileYieldsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Nil(t, c.Seed)
	assert.True(t, c.Window.VSync)
	assert.Equal(t, 4, c.Window.MSAA)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, `
assets: /srv/yuletide
seed: 42
window:
  width: 800
loader:
  workers: 2
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/yuletide", c.Assets)
	require.NotNil(t, c.Seed)
	assert.Equal(t, int64(42), *c.Seed)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height)
	assert.Equal(t, "Yuletide", c.Window.Title)
	assert.Equal(t, 2, c.Loader.Workers)
	assert.Equal(t, "info", c.LogLevel)
}

func TestMalformedFileIsAnError(t *testing.T) {
	_, err := Load(writeFile(t, "window: [this is not a map"))
	assert.Error(t, err)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	_, err := Load(writeFile(t, "window:\n  msaa: 8\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "msaa")

	_, err = Load(writeFile(t, "window:\n  height: 0\n"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	seed := int64(7)
	c := Default()
	c.Seed = &seed
	c.Profile = true
	c.FrameLimit = 30

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
