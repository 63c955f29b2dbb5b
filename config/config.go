package config

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is the hosted BillKit API base path
	DefaultBaseURL = "https://api.billkit.co/v1"

	// DefaultTimeout applies to every request made by the client
	DefaultTimeout = 30 * time.Second
)

// Configuration holds the SDK settings. It is constructed once and
// read-only afterwards, so it is safe to share across goroutines.
type Configuration struct {
	// APIKey is the BillKit secret key sent as a bearer token. It may
	// be empty here; the client constructor requires one, so a key
	// passed explicitly does not need to be present in the environment.
	APIKey string `mapstructure:"api_key"`

	// BaseURL is the API base path, without a trailing slash
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Timeout is the fixed per-request timeout
	Timeout time.Duration `mapstructure:"timeout"`
}

// NewConfig loads configuration from the process environment. An
// optional env file path may be given; it is loaded first and never
// overrides variables already present in the environment.
//
// Recognized variables:
//
//	BILLKIT_SECRET_KEY  API key (required unless passed explicitly)
//	BILLKIT_BASE_URL    base URL override
//	BILLKIT_TIMEOUT     request timeout, e.g. "30s"
func NewConfig(envFiles ...string) (*Configuration, error) {
	if len(envFiles) > 0 {
		// Missing files are not an error, same as a missing config file
		_ = godotenv.Load(envFiles...)
	}

	v := viper.New()
	v.SetEnvPrefix("BILLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// The key env var does not follow the prefix_key convention
	_ = v.BindEnv("api_key", "BILLKIT_SECRET_KEY")

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout)

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

var (
	defaultConfig *Configuration
	defaultErr    error
	defaultOnce   sync.Once
)

// Default returns the process-wide configuration, loaded from the
// environment exactly once. Concurrent callers see the same instance.
func Default() (*Configuration, error) {
	defaultOnce.Do(func() {
		defaultConfig, defaultErr = NewConfig()
	})
	return defaultConfig, defaultErr
}
