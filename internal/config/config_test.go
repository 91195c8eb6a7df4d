package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("LTV_TEST_DIR", "/data")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "/var/lib/ltv.db", want: "/var/lib/ltv.db"},
		{name: "home prefix", input: "~/ltv.db", want: filepath.Join(home, "ltv.db")},
		{name: "bare tilde", input: "~", want: home},
		{name: "env var", input: "$LTV_TEST_DIR/ltv.db", want: "/data/ltv.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Load()
	assert.Equal(t, "pb", cfg.Language)
	assert.Equal(t, DefaultMemoryPath(), cfg.MemoryDB)
	assert.Empty(t, cfg.Username)
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("credentials.username", "user")
	viper.Set("credentials.password", "secret")
	viper.Set("language", "en")
	viper.Set("memory.path", "/tmp/choices.db")

	cfg := Load()
	assert.Equal(t, "user", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "/tmp/choices.db", cfg.MemoryDB)
}
