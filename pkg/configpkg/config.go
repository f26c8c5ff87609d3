// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DBSource             string        `mapstructure:"DB_SOURCE"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	TokenType            string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey    string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration  time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RefreshTokenDuration time.Duration `mapstructure:"REFRESH_TOKEN_DURATION"`
	Environment          string        `mapstructure:"GO_ENV"`
	RedisURL             string        `mapstructure:"REDIS_URL"`
	GeocoderURL          string        `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent    string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderTimeout      time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderCacheSize    int           `mapstructure:"GEOCODER_CACHE_SIZE"`
	ShutdownTimeout      time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// Token types accepted by TOKEN_TYPE.
const (
	TokenTypePaseto = "paseto"
	TokenTypeJWT    = "jwt"
)

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal
// even when the key is absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("TOKEN_SYMMETRIC_KEY", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("GEOCODER_TIMEOUT", time.Duration(0))
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("TOKEN_TYPE", TokenTypePaseto)
	v.SetDefault("ACCESS_TOKEN_DURATION", 15*time.Minute)
	v.SetDefault("REFRESH_TOKEN_DURATION", 24*time.Hour)
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "pet-wallet")
	v.SetDefault("GEOCODER_CACHE_SIZE", 1024)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
