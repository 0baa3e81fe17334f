package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":9010", c.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "Candidate", c.DefaultIdentityState)
	assert.Equal(t, 3, c.DefaultRequiredFlips)
	assert.Equal(t, 5, c.DefaultAvailableFlips)
	assert.Empty(t, c.S3BaseEndpoint)
}

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_YAMLThenFlags(t *testing.T) {
	p := write(t, "node.yml", `
database_dsn: postgres://x
access_token_validity_duration: 30m
epoch_duration: 1h
default_identity_state: Verified
default_available_flips: 0
s3_base_endpoint: http://minio:9000
`)

	cfg, err := Load([]string{"-c", p, "-t", "5", "-a", ":7000"})
	require.NoError(t, err)

	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, "Verified", cfg.DefaultIdentityState)
	assert.Equal(t, 0, cfg.DefaultAvailableFlips)
	assert.Equal(t, 3, cfg.DefaultRequiredFlips)
	assert.Equal(t, time.Hour, cfg.EpochDuration)
	assert.Equal(t, "http://minio:9000", cfg.S3BaseEndpoint)
	// flags win over the file
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, ":7000", cfg.EndpointAddrGRPC)
}

func TestLoad_JSON(t *testing.T) {
	p := write(t, "node.json", `{"secret_key": "s3cr3t", "s3_bucket": "b"}`)

	cfg, err := Load([]string{"--config=" + p})
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, "b", cfg.S3Bucket)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]string{"-c", "/nonexistent/node.json"})
	assert.ErrorContains(t, err, "read config")

	p := write(t, "bad.yaml", "epoch_duration: [1, 2]\n")
	_, err = Load([]string{"-c", p})
	assert.ErrorContains(t, err, "parse config")

	_, err = Load([]string{"-t", "soon"})
	assert.Error(t, err)
}
