package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, StrategySurrogate, cfg.Embedding.Strategy)
	assert.Equal(t, ":8000", cfg.Addr())
}

func TestLoad_ReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
data_dir = "/var/lib/policyqa"

[server]
port = 9090
auth_token = "file-token"

[groq]
api_key = "file-groq-key"
model = "llama3-70b-8192"

[pinecone]
api_key = "file-pinecone-key"
index_name = "policies"

[embedding]
strategy = "remote"
base_url = "http://encoder:8080"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file-token", cfg.Server.AuthToken)
	assert.Equal(t, "file-groq-key", cfg.Groq.APIKey)
	assert.Equal(t, "llama3-70b-8192", cfg.Groq.Model)
	assert.Equal(t, "policies", cfg.Pinecone.IndexName)
	assert.Equal(t, StrategyRemote, cfg.Embedding.Strategy)
	assert.Equal(t, "http://encoder:8080", cfg.Embedding.BaseURL)
	assert.Equal(t, "/var/lib/policyqa", cfg.DataDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[server]
port = 9090
auth_token = "file-token"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	t.Setenv("PORT", "7070")
	t.Setenv("POLICYQA_AUTH_TOKEN", "env-token")
	t.Setenv("GROQ_API_KEY", "env-groq-key")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-token", cfg.Server.AuthToken)
	assert.Equal(t, "env-groq-key", cfg.Groq.APIKey)
}

func TestLoad_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoad_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[[["), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}
