package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "GOSPAM"

// Config holds the resolved settings
type Config struct {
	SpamPath      string
	HamPath       string
	StopWordsPath string
	// ModelCache is a trained model file; empty means train from the corpora
	ModelCache string
	Stem       bool
	CacheSize  int
	LogLevel   string
	ServerAddr string
}

// New returns a viper instance with defaults and GOSPAM_ environment
// overrides, reading configFile when it is not empty.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("corpus.spam", "spam.txt")
	v.SetDefault("corpus.ham", "ham.txt")
	v.SetDefault("corpus.stop_words", "stop_words.txt")
	v.SetDefault("model.cache", "")
	v.SetDefault("features.stem", false)
	v.SetDefault("features.cache_size", 4096)
	v.SetDefault("logging.level", "info")
	v.SetDefault("server.addr", ":8080")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", configFile)
		}
	}
	return v, nil
}

// Load resolves the current settings from v
func Load(v *viper.Viper) Config {
	return Config{
		SpamPath:      v.GetString("corpus.spam"),
		HamPath:       v.GetString("corpus.ham"),
		StopWordsPath: v.GetString("corpus.stop_words"),
		ModelCache:    v.GetString("model.cache"),
		Stem:          v.GetBool("features.stem"),
		CacheSize:     v.GetInt("features.cache_size"),
		LogLevel:      strings.ToLower(v.GetString("logging.level")),
		ServerAddr:    v.GetString("server.addr"),
	}
}

// Watch calls onChange whenever the config file backing v is modified.
// It is a no-op when v was not read from a file.
func Watch(v *viper.Viper, onChange func(fsnotify.Event)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(onChange)
	v.WatchConfig()
}
