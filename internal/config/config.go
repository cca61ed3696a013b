// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autokosten/autokosten-cli/internal/costs"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	RDW      RDWConfig      `yaml:"rdw" mapstructure:"rdw"`
	Tax      TaxConfig      `yaml:"tax" mapstructure:"tax"`
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RDWConfig configures the open-data resolver.
type RDWConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	CacheTTLMins int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// TaxConfig holds the statutory knobs that change by law, not by vehicle.
type TaxConfig struct {
	KmAllowance float64 `yaml:"km_allowance" mapstructure:"km_allowance"`
}

// DefaultsConfig pre-fills the calculation inputs a user did not supply.
type DefaultsConfig struct {
	PurchasePrice  float64 `yaml:"purchase_price" mapstructure:"purchase_price"`
	ResidualValue  float64 `yaml:"residual_value" mapstructure:"residual_value"`
	OwnershipYears int     `yaml:"ownership_years" mapstructure:"ownership_years"`
	AnnualKm       float64 `yaml:"annual_km" mapstructure:"annual_km"`
	BusinessShare  float64 `yaml:"business_share" mapstructure:"business_share"`
	FuelUnitPrice  float64 `yaml:"fuel_unit_price" mapstructure:"fuel_unit_price"`
	InsuranceTier  string  `yaml:"insurance_tier" mapstructure:"insurance_tier"`
	MarginalRate   float64 `yaml:"marginal_rate" mapstructure:"marginal_rate"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AUTOKOSTEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "autokosten.db")
	v.SetDefault("rdw.base_url", "https://opendata.rdw.nl")
	v.SetDefault("rdw.rate_limit_rps", 10)
	v.SetDefault("rdw.cache_ttl_mins", 5)
	v.SetDefault("rdw.timeout_secs", 30)
	v.SetDefault("tax.km_allowance", costs.DefaultKmAllowance)
	v.SetDefault("defaults.purchase_price", 25000)
	v.SetDefault("defaults.residual_value", 10000)
	v.SetDefault("defaults.ownership_years", 5)
	v.SetDefault("defaults.annual_km", 15000)
	v.SetDefault("defaults.business_share", 60)
	v.SetDefault("defaults.fuel_unit_price", 1.85)
	v.SetDefault("defaults.insurance_tier", "allrisk")
	v.SetDefault("defaults.marginal_rate", 37)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for values no command can work
// with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required")
	}
	if c.Tax.KmAllowance <= 0 {
		return eris.New("config: tax.km_allowance must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
