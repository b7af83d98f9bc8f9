package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.MasterKey)
				assert.Empty(t, cfg.CurrentKeyID)
				assert.Equal(t, "AES-256-GCM", cfg.EncryptionAlgorithm)
				assert.Equal(t, 4, cfg.ReEncryptConcurrency)
				assert.Empty(t, cfg.SealerKeyURI)
				assert.Equal(t, 5*time.Second, cfg.SealerTimeout)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "cardvault", cfg.MetricsNamespace)
			},
		},
		{
			name: "load encryption configuration",
			envVars: map[string]string{
				"MASTER_KEY":            "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
				"CURRENT_KEY_ID":        "key_prod_2026",
				"ENCRYPTION_KEYS":       "key_a:AAAA,key_b:BBBB",
				"ENCRYPTION_ALGORITHM":  "CHACHA20-POLY1305",
				"REENCRYPT_CONCURRENCY": "8",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", cfg.MasterKey)
				assert.Equal(t, "key_prod_2026", cfg.CurrentKeyID)
				assert.Equal(t, "key_a:AAAA,key_b:BBBB", cfg.EncryptionKeys)
				assert.Equal(t, "CHACHA20-POLY1305", cfg.EncryptionAlgorithm)
				assert.Equal(t, 8, cfg.ReEncryptConcurrency)
			},
		},
		{
			name: "load kms and sealer configuration",
			envVars: map[string]string{
				"KMS_PROVIDER":   "localsecrets",
				"KMS_KEY_URI":    "base64key://abc",
				"SEALER_KEY_URI": "base64key://def",
				"SEALER_TIMEOUT": "2",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localsecrets", cfg.KMSProvider)
				assert.Equal(t, "base64key://abc", cfg.KMSKeyURI)
				assert.Equal(t, "base64key://def", cfg.SealerKeyURI)
				assert.Equal(t, 2*time.Second, cfg.SealerTimeout)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":            "mysql",
				"DB_CONNECTION_STRING": "user:password@tcp(localhost:3306)/cardvault",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/cardvault", cfg.DBConnectionString)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "unknown"}).GetGinMode())
}
