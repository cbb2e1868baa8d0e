package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bibliotube/internal/flagx"
	"github.com/dmitrijs2005/bibliotube/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations go through
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	DataDir                      string         `json:"data_dir"`
	LocalDBPath                  string         `json:"local_db_path"`
	RemoteDSN                    string         `json:"remote_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	AppScheme                    string         `json:"app_scheme"`
	SyncOnStart                  bool           `json:"sync_on_start"`
	CheckClipboard               bool           `json:"check_clipboard"`
	LogLevel                     string         `json:"log_level"`
	S3AccessKey                  string         `json:"s3_access_key"`
	S3SecretKey                  string         `json:"s3_secret_key"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson overlays the file named by -c/-config onto config. Keys missing
// from the file keep their current values. Unreadable or invalid files
// panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}
	fromJson(c, config)
}

func toJson(config *Config) *JsonConfig {
	return &JsonConfig{
		DataDir:                      config.DataDir,
		LocalDBPath:                  config.LocalDBPath,
		RemoteDSN:                    config.RemoteDSN,
		SecretKey:                    config.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: config.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: config.RefreshTokenValidityDuration},
		AppScheme:                    config.AppScheme,
		SyncOnStart:                  config.SyncOnStart,
		CheckClipboard:               config.CheckClipboard,
		LogLevel:                     config.LogLevel,
		S3AccessKey:                  config.S3AccessKey,
		S3SecretKey:                  config.S3SecretKey,
		S3Bucket:                     config.S3Bucket,
		S3Region:                     config.S3Region,
		S3BaseEndpoint:               config.S3BaseEndpoint,
	}
}

func fromJson(c *JsonConfig, config *Config) {
	config.DataDir = c.DataDir
	config.LocalDBPath = c.LocalDBPath
	config.RemoteDSN = c.RemoteDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.AppScheme = c.AppScheme
	config.SyncOnStart = c.SyncOnStart
	config.CheckClipboard = c.CheckClipboard
	config.LogLevel = c.LogLevel
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
