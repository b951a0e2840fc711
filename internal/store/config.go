package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      int    `yaml:"port"`
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"server"`

	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`

	Session struct {
		MaxDailyTrades        int     `yaml:"max_daily_trades"`
		DailyLossLimitPct     float64 `yaml:"daily_loss_limit_pct"`
		ProfitLockPct         float64 `yaml:"profit_lock_pct"`
		ProfitLockMaxTrades   int     `yaml:"profit_lock_max_trades"`
		LossStreakTrigger     int     `yaml:"loss_streak_trigger"`
		LossStreakCooldownMin int     `yaml:"loss_streak_cooldown_min"`
		PeakDrawdownPct       float64 `yaml:"peak_drawdown_pct"`
		StartDelayMin         int     `yaml:"start_delay_min"`
		EndBufferMin          int     `yaml:"end_buffer_min"`
	} `yaml:"session"`

	Screener struct {
		MinHistory       int     `yaml:"min_history"`
		RSIPeriod        int     `yaml:"rsi_period"`
		TrendPeriods     []int   `yaml:"trend_periods"`
		VolumeLookback   int     `yaml:"volume_lookback"`
		VolatilityPeriod int     `yaml:"volatility_period"`
		MinChangePct     float64 `yaml:"min_change_pct"`
		MaxChangePct     float64 `yaml:"max_change_pct"`
		MinVolumeRatio   float64 `yaml:"min_volume_ratio"`
		MinScore         float64 `yaml:"min_score"`
	} `yaml:"screener"`

	Sizer struct {
		MaxLeverage int `yaml:"max_leverage"`
		MinLeverage int `yaml:"min_leverage"`
	} `yaml:"sizer"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Session.MaxDailyTrades <= 0 {
		return fmt.Errorf("session.max_daily_trades must be positive, got %d", c.Session.MaxDailyTrades)
	}
	if c.Session.DailyLossLimitPct >= 0 {
		return fmt.Errorf("session.daily_loss_limit_pct must be negative, got %.2f", c.Session.DailyLossLimitPct)
	}
	if c.Sizer.MinLeverage < 1 || c.Sizer.MaxLeverage < c.Sizer.MinLeverage {
		return fmt.Errorf("sizer leverage bounds invalid: min=%d max=%d", c.Sizer.MinLeverage, c.Sizer.MaxLeverage)
	}
	if c.Screener.RSIPeriod <= 0 {
		return fmt.Errorf("screener.rsi_period must be positive, got %d", c.Screener.RSIPeriod)
	}
	if len(c.Screener.TrendPeriods) == 0 {
		return fmt.Errorf("screener.trend_periods cannot be empty")
	}
	return nil
}

// LoadConfig reads the YAML config and fills defaults for anything the file
// leaves unset. A missing file is not an error: the defaults alone form a
// complete working configuration.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.APIKeyEnv == "" {
		c.Server.APIKeyEnv = "API_KEY"
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "data/decisions.db"
	}

	s := &c.Session
	if s.MaxDailyTrades == 0 {
		s.MaxDailyTrades = 30
	}
	if s.DailyLossLimitPct == 0 {
		s.DailyLossLimitPct = -40.0
	}
	if s.ProfitLockPct == 0 {
		s.ProfitLockPct = 40.0
	}
	if s.ProfitLockMaxTrades == 0 {
		s.ProfitLockMaxTrades = 15
	}
	if s.LossStreakTrigger == 0 {
		s.LossStreakTrigger = 3
	}
	if s.LossStreakCooldownMin == 0 {
		s.LossStreakCooldownMin = 30
	}
	if s.PeakDrawdownPct == 0 {
		s.PeakDrawdownPct = 25.0
	}
	if s.StartDelayMin == 0 {
		s.StartDelayMin = 30
	}
	if s.EndBufferMin == 0 {
		s.EndBufferMin = 45
	}

	sc := &c.Screener
	if sc.MinHistory == 0 {
		sc.MinHistory = 60
	}
	if sc.RSIPeriod == 0 {
		sc.RSIPeriod = 14
	}
	if len(sc.TrendPeriods) == 0 {
		sc.TrendPeriods = []int{15, 30, 60}
	}
	if sc.VolumeLookback == 0 {
		sc.VolumeLookback = 30
	}
	if sc.VolatilityPeriod == 0 {
		sc.VolatilityPeriod = 30
	}
	if sc.MinChangePct == 0 {
		sc.MinChangePct = 20.0
	}
	if sc.MaxChangePct == 0 {
		sc.MaxChangePct = 100.0
	}
	if sc.MinVolumeRatio == 0 {
		sc.MinVolumeRatio = 0.8
	}
	if sc.MinScore == 0 {
		sc.MinScore = 15.0
	}

	if c.Sizer.MaxLeverage == 0 {
		c.Sizer.MaxLeverage = 6
	}
	if c.Sizer.MinLeverage == 0 {
		c.Sizer.MinLeverage = 2
	}
}
