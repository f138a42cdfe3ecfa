package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "adm", cfg.Admin.Username)
	assert.Equal(t, 10, cfg.Stock.LowThreshold)
	assert.Contains(t, cfg.Database.DSN(), "dbname=foodstack")
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://pos:pos@db:5432/pos")
	t.Setenv("STOCK_LOW_THRESHOLD", "5")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, "postgres://pos:pos@db:5432/pos", cfg.Database.DSN())
	assert.Equal(t, 5, cfg.Stock.LowThreshold)
}

func TestLocation_FallsBackOnUnknownZone(t *testing.T) {
	app := AppConfig{Timezone: "Nowhere/Invalid"}

	loc := app.Location()

	_, offset := time.Date(2024, 1, 1, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, -3*60*60, offset)
}
