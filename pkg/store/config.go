package store

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config interface {
	// Endpoint is the base URL the query path is appended to.
	Endpoint() string
	// BasePath is the history directory.
	BasePath() string
	HistoryEnabled() bool
	LogLevel() string
	LogFile() string
}

const (
	DefaultEndpoint = "http://localhost:3000"
	DefaultBasePath = "~/.ask.db"
	DefaultLogFile  = "~/.ask.log"
)

// LoadConfig reads .ask.yaml from $ASK_CONFIG_PATH, the working directory, or
// the home directory, overlaid with ASK_* environment variables and any flags
// bound to viper keys. A .env file in the working directory may supply ASK_*
// variables; the real environment wins.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	viper.SetDefault("endpoint", DefaultEndpoint)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", DefaultBasePath)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", DefaultLogFile)
	viper.SetConfigName(".ask") // .yaml is implicit
	viper.SetEnvPrefix("ASK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("ASK_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("history.path"))
	if err != nil {
		return nil, err
	}
	logFile, err := homedir.Expand(viper.GetString("log.file"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		EndpointURL: viper.GetString("endpoint"),
		Path:        path,
		History:     viper.GetBool("history.enabled"),
		Level:       viper.GetString("log.level"),
		File:        logFile,
	}, nil
}

type fileConfig struct {
	EndpointURL string `json:"endpoint"`
	Path        string `json:"path"`
	History     bool   `json:"history"`
	Level       string `json:"logLevel"`
	File        string `json:"logFile"`
}

func (f *fileConfig) Endpoint() string     { return f.EndpointURL }
func (f *fileConfig) BasePath() string     { return f.Path }
func (f *fileConfig) HistoryEnabled() bool { return f.History }
func (f *fileConfig) LogLevel() string     { return f.Level }
func (f *fileConfig) LogFile() string      { return f.File }
