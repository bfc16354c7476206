package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "./data/synergo.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Hour, cfg.Quiz.SessionTTL)
	assert.Equal(t, 10, cfg.Quiz.DefaultQuestions)
	assert.Equal(t, int64(100*1024*1024), cfg.Uploads.MaxFileSizeBytes)
	assert.Contains(t, cfg.Uploads.AllowedMIMEs, "video/mp4")
	assert.Len(t, cfg.CORS.AllowedOrigins, 3)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "POSTGRES")
	v.Set("QUIZ_SESSION_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	v.Set("UPLOAD_MAX_BYTES", 0)

	cfg := fromViper(v)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Quiz.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, int64(100*1024*1024), cfg.Uploads.MaxFileSizeBytes)
}

func TestSplitAndTrimEmpty(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
}
