package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig
	require.NoError(t, c.Validate())
	assert.Equal(t, 3, c.Rules.MaxUndos)
	assert.Equal(t, BackendFile, c.Storage.Backend)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, *c)
}

func TestLoadMergesFile(t *testing.T) {
	path := writeConfig(t, `{
		"rules": {"max_undos": 5},
		"storage": {"backend": "redis", "redis_url": "localhost:6379"},
		"theme": {"colors": {"water": 33}}
	}`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Rules.MaxUndos)
	assert.Equal(t, BackendRedis, c.Storage.Backend)
	assert.Equal(t, 33, c.Theme.Colors.WaterColor)
	assert.Equal(t, DefaultTheme.Colors.LandColor, c.Theme.Colors.LandColor, "unset keys keep their defaults")
	assert.Equal(t, "info", c.Log.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("JUNGLE_STORAGE_BACKEND", "mongo")
	t.Setenv("JUNGLE_STORAGE_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JUNGLE_RULES_MAX_UNDOS", "1")
	t.Setenv("JUNGLE_RECORD_AUTO", "true")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMongo, c.Storage.Backend)
	assert.Equal(t, "mongodb://localhost:27017", c.Storage.MongoURI)
	assert.Equal(t, 1, c.Rules.MaxUndos)
	assert.True(t, c.Record.Auto)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative undos", func(c *Config) { c.Rules.MaxUndos = -1 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "sqlite" }},
		{"redis without url", func(c *Config) { c.Storage.Backend = BackendRedis }},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = BackendMongo }},
		{"palette index", func(c *Config) { c.Theme.Colors.TrapColor = 256 }},
		{"control character", func(c *Config) { c.Theme.Symbols.Water = '\t' }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig
			tc.mutate(&c)
			var invalid *InvalidConfig
			assert.True(t, errors.As(c.Validate(), &invalid))
		})
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	_, err := Load(writeConfig(t, `{"rules": `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `{"storage": {"backend": "tape"}}`))
	var invalid *InvalidConfig
	assert.True(t, errors.As(err, &invalid))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	c := DefaultConfig
	c.Record.Auto = true
	c.Storage.Dir = "/var/lib/jungle"
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	require.NoError(t, c.SaveTo(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, *loaded)
}
