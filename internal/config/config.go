// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

// PoolConfig names one pool account to monitor.
type PoolConfig struct {
	Address string `mapstructure:"address"`
	Label   string `mapstructure:"label"`
}

// PositionConfig describes a position to mark against its pool every
// tick. Size and collateral are raw on-chain units, leverage is the
// human multiplier.
type PositionConfig struct {
	Pool       string  `mapstructure:"pool"`
	IsLong     bool    `mapstructure:"is_long"`
	Size       uint64  `mapstructure:"size"`
	Collateral uint64  `mapstructure:"collateral"`
	Leverage   float64 `mapstructure:"leverage"`
}

// AlertConfig holds alert thresholds, both in percent.
type AlertConfig struct {
	FundingPerDayPercent float64 `mapstructure:"funding_per_day_percent"`
	PriceMovePercent     float64 `mapstructure:"price_move_percent"`
}

type Config struct {
	RPCList         []string         `mapstructure:"rpc_list"`
	Pools           []PoolConfig     `mapstructure:"pools"`
	Positions       []PositionConfig `mapstructure:"positions"`
	SolPriceAccount string           `mapstructure:"sol_price_account"`
	SolPriceUSD     float64          `mapstructure:"sol_price_usd"`
	PollIntervalMs  int              `mapstructure:"poll_interval_ms"`
	PostgresURL     string           `mapstructure:"postgres_url"`
	DebugLogging    bool             `mapstructure:"debug_logging"`
	LogFile         string           `mapstructure:"log_file"`
	Alerts          AlertConfig      `mapstructure:"alerts"`
}

const (
	DefaultPollIntervalMs       = 1000
	DefaultFundingAlertPercent  = 1.0  // funding above 1%/day is notable
	DefaultPriceMoveAlertPct    = 10.0 // single-tick move
	DefaultLogFile              = "logs/levermon.log"
)

// LoadConfig reads and validates the config file at path.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"poll_interval_ms":               DefaultPollIntervalMs,
		"alerts.funding_per_day_percent": DefaultFundingAlertPercent,
		"alerts.price_move_percent":      DefaultPriceMoveAlertPct,
		"log_file":                       DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("LEVERMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURL(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}

	if len(cfg.Pools) == 0 {
		return errors.New("no pools configured")
	}
	labels := make(map[string]struct{}, len(cfg.Pools))
	for _, p := range cfg.Pools {
		if _, err := solana.PublicKeyFromBase58(p.Address); err != nil {
			return fmt.Errorf("invalid pool address %q: %w", p.Address, err)
		}
		if p.Label == "" {
			return fmt.Errorf("pool %s has no label", p.Address)
		}
		if _, dup := labels[p.Label]; dup {
			return fmt.Errorf("duplicate pool label %q", p.Label)
		}
		labels[p.Label] = struct{}{}
	}

	for i, pos := range cfg.Positions {
		if _, err := solana.PublicKeyFromBase58(pos.Pool); err != nil {
			return fmt.Errorf("position %d: invalid pool address %q: %w", i, pos.Pool, err)
		}
		if pos.Leverage < 1 {
			return fmt.Errorf("position %d: leverage must be >= 1, got %f", i, pos.Leverage)
		}
	}

	// Exactly one price source: a pinned price or an oracle account.
	if cfg.SolPriceAccount == "" && cfg.SolPriceUSD <= 0 {
		return errors.New("either sol_price_account or sol_price_usd must be set")
	}
	if cfg.SolPriceAccount != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.SolPriceAccount); err != nil {
			return fmt.Errorf("invalid sol_price_account: %w", err)
		}
	}

	if cfg.PollIntervalMs <= 0 {
		return errors.New("poll_interval_ms must be positive")
	}

	return nil
}

func validateURL(raw, scheme string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(u.Scheme, scheme) {
		return fmt.Errorf("expected %s scheme, got %q", scheme, u.Scheme)
	}
	return nil
}
