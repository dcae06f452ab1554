// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvConfigJSON names the environment variable whose JSON content overrides the TOML file.
const EnvConfigJSON = "SPLITLEDGER_CONFIG_JSON"

const (
	defaultShutDownTime   = 5
	defaultCookieName     = "session_id"
	defaultSessionTable   = "sessions"
	defaultSessionExpiry  = 30 * 24 * time.Hour
	invalidConfigErrorMsg = "invalid config"
)

// ReadConfig reads path+"main.toml", merges the JSON override from the environment
// on top of it and validates the result.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(path + "main.toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(EnvConfigJSON); configAsJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configAsJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge "+EnvConfigJSON)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills in defaults.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidConfigErrorMsg)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidConfigErrorMsg)
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineMySQL
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnsupportedGormEngine, invalidConfigErrorMsg)
	}

	if c.DB.Name == "" {
		return errors.Wrap(ErrEmptyDBName, invalidConfigErrorMsg)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = defaultCookieName
	}

	if c.Webserver.Session.Table == "" {
		c.Webserver.Session.Table = defaultSessionTable
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	return nil
}
