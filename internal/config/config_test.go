package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"quill/pkg/models"
)

func TestGetConfigPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".quill")
	assert.Equal(t, expected, GetConfigPath())
}

func TestGetConfigFile(t *testing.T) {
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".quill", "config.yaml")
	assert.Equal(t, expected, GetConfigFile())
}

func TestSaveAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "quill-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// Override home directory for testing
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	testConfig := &models.Config{
		Blog: models.Blog{
			Owner:    "octocat",
			Repo:     "blog",
			Branch:   "main",
			PostsDir: "posts",
			Index:    "posts/posts.yaml",
		},
		API: models.API{
			Token: "ghp_secret",
		},
	}

	err = Save(testConfig)
	assert.NoError(t, err)
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testConfig.Blog, loaded.Blog)
	assert.Equal(t, "ghp_secret", loaded.API.Token)
}

func TestSaveEncryptsTokenOnDisk(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "quill-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	err = Save(&models.Config{API: models.API{Token: "ghp_secret"}})
	require.NoError(t, err)

	data, err := os.ReadFile(GetConfigFile())
	require.NoError(t, err)

	var raw models.Config
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.True(t, IsEncrypted(raw.API.Token))
	assert.NotContains(t, string(data), "ghp_secret")
}

func TestExists(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "quill-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	assert.False(t, Exists())

	_ = os.MkdirAll(GetConfigPath(), 0700)
	file, err := os.Create(GetConfigFile())
	require.NoError(t, err)
	file.Close()

	assert.True(t, Exists())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := EncryptToken("token-value")
	require.NoError(t, err)
	assert.True(t, IsEncrypted(enc))
	assert.NotContains(t, enc, "token-value")

	dec, err := DecryptToken(enc)
	require.NoError(t, err)
	assert.Equal(t, "token-value", dec)
}

func TestEncryptEmptyToken(t *testing.T) {
	enc, err := EncryptToken("")
	require.NoError(t, err)
	assert.Equal(t, "", enc)
}
