package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	content := `api:
  environment: "test"
  port: "8081"
  base_url: "localhost:8081"
  public_base_url: "http://localhost:5173"
  jwt_signing_key: "test-key"
  allowed_cors_domains:
    - "http://localhost:5173"

gin:
  mode: "test"

postgres:
  host: "localhost"
  port: "5432"
  user: "test"
  password: "test"
  db_name: "trial_master_test"
  ssl_mode: "disable"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "8081", conf.API.Port)
	assert.Equal(t, "http://localhost:5173", conf.API.PublicBaseURL)
	assert.Equal(t, []string{"http://localhost:5173"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "test", conf.Gin.Mode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	conf := PostgresConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "app",
		Password: "pw",
		DBName:   "trials",
		SSLMode:  "require",
	}

	assert.Equal(t, "host=db.internal port=5433 user=app password=pw dbname=trials sslmode=require", conf.DSN())
}
