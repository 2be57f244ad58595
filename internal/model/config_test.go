package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigReadsAllFields(t *testing.T) {
	path := writeConfig(t, `
host: mail.example.com
username: me@example.com
password: hunter2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", cfg.Host)
	assert.Equal(t, "me@example.com", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
}

func TestLoadConfigMissingFileIsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMissingKeyIsError(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing host", "username: u\npassword: p\n"},
		{"missing username", "host: h\npassword: p\n"},
		{"missing password", "host: h\nusername: u\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing required key")
		})
	}
}
