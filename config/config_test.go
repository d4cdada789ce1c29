package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "STORE_DRIVER", "JWT_TTL", "MAIL_TRANSPORT", "COMPANY_NAME"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, MailMailgun, cfg.MailTransport)
	assert.Equal(t, "AuthModule Petaverse", cfg.CompanyName)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("OTEL_SAMPLE_RATE", "0.5")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 0.5, cfg.OtelSampleRate)
	assert.EqualValues(t, 10, cfg.DBMaxConns)
}

func validMemory() *Config {
	return &Config{
		Env:         "development",
		Port:        "8080",
		StoreDriver: StoreMemory,
		TokenTTL:    time.Hour,
	}
}

func TestValidate(t *testing.T) {
	t.Run("development secret fallback", func(t *testing.T) {
		cfg := validMemory()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "devsecret", cfg.JWTSecret)
	})

	t.Run("production needs secret and a real store", func(t *testing.T) {
		cfg := validMemory()
		cfg.Env = "production"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET is required")
		assert.Contains(t, err.Error(), "memory store is not allowed in production")
	})

	t.Run("mailgun settings", func(t *testing.T) {
		cfg := validMemory()
		cfg.MailSendEnabled = true
		cfg.MailTransport = MailMailgun
		assert.ErrorContains(t, cfg.Validate(), "MAILGUN_DOMAIN")

		cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender = "mg.example.com", "key", "AuthModule Petaverse <no-reply@example.com>"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown values", func(t *testing.T) {
		cfg := validMemory()
		cfg.StoreDriver = "sqlite"
		cfg.MailSendEnabled = true
		cfg.MailTransport = "pigeon"
		err := cfg.Validate()
		assert.ErrorContains(t, err, `unknown STORE_DRIVER "sqlite"`)
		assert.ErrorContains(t, err, `unknown MAIL_TRANSPORT "pigeon"`)
	})

	t.Run("mongo needs uri", func(t *testing.T) {
		cfg := validMemory()
		cfg.StoreDriver = StoreMongo
		assert.ErrorContains(t, cfg.Validate(), "MONGO_URI")
	})
}

func TestHelpers(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "auth", DBSSLMode: "disable",
		CORSAllowedOrigins: " https://a.example , ,https://b.example",
		ElasticsearchAddrs: "http://es:9200",
	}
	assert.Equal(t, "postgres://u:p@db:5432/auth?sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, cfg.ESAddrs())
	assert.Empty(t, (&Config{}).ESAddrs())
}
