// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/clock"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/thor"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration. Values are layered: defaults, then the yaml
// file, then the environment (a .env file included), then command line flags.
type Config struct {
	APIAddr         string        `yaml:"api-addr" env:"LOTTERY_API_ADDR"`
	APICors         string        `yaml:"api-cors" env:"LOTTERY_API_CORS"`
	APITimeout      time.Duration `yaml:"api-timeout" env:"LOTTERY_API_TIMEOUT"`
	EnableAPILogs   bool          `yaml:"enable-api-logs" env:"LOTTERY_ENABLE_API_LOGS"`
	APISlowQueries  time.Duration `yaml:"api-slow-queries-threshold" env:"LOTTERY_API_SLOW_QUERIES_THRESHOLD"`
	APILog5xxErrors bool          `yaml:"api-log-5xx-errors" env:"LOTTERY_API_LOG_5XX_ERRORS"`
	EnableAdmin     bool          `yaml:"enable-admin" env:"LOTTERY_ENABLE_ADMIN"`
	AdminAddr       string        `yaml:"admin-addr" env:"LOTTERY_ADMIN_ADDR"`
	EnableMetrics   bool          `yaml:"enable-metrics" env:"LOTTERY_ENABLE_METRICS"`
	MetricsAddr     string        `yaml:"metrics-addr" env:"LOTTERY_METRICS_ADDR"`
	Algorithm       string        `yaml:"algorithm" env:"LOTTERY_ALGORITHM"`
	Encoding        string        `yaml:"encoding" env:"LOTTERY_ENCODING"`
	RelaxedLimits   bool          `yaml:"relaxed-limits" env:"LOTTERY_RELAXED_LIMITS"`
	AllowedSigners  []string      `yaml:"allowed-signers" env:"LOTTERY_ALLOWED_SIGNERS" envSeparator:","`
	ReplayCacheSize int           `yaml:"replay-cache-size" env:"LOTTERY_REPLAY_CACHE_SIZE"`
	VRFKeyFile      string        `yaml:"vrf-key-file" env:"LOTTERY_VRF_KEY_FILE"`
	NTPServer       string        `yaml:"ntp-server" env:"LOTTERY_NTP_SERVER"`
	NTPPeriod       time.Duration `yaml:"ntp-period" env:"LOTTERY_NTP_PERIOD"`
	DisableNTP      bool          `yaml:"disable-ntp" env:"LOTTERY_DISABLE_NTP"`
	FeedSize        int           `yaml:"feed-size" env:"LOTTERY_FEED_SIZE"`
	Verbosity       int           `yaml:"verbosity" env:"LOTTERY_VERBOSITY"`
	JSONLogs        bool          `yaml:"json-logs" env:"LOTTERY_JSON_LOGS"`
	LogFormat       string        `yaml:"log-format" env:"LOTTERY_LOG_FORMAT"`
}

// logFormat resolves the log output format; json-logs wins over log-format.
func (c *Config) logFormat() (log.Format, error) {
	if c.JSONLogs {
		return log.FormatJSON, nil
	}
	return log.ParseFormat(c.LogFormat)
}

func defaultConfig() *Config {
	return &Config{
		APIAddr:         "localhost:8679",
		APITimeout:      10 * time.Second,
		AdminAddr:       "localhost:2113",
		MetricsAddr:     "localhost:2112",
		Algorithm:       lottery.Blake3.String(),
		Encoding:        lottery.EncodingFramed.String(),
		ReplayCacheSize: auth.DefaultReplayCacheSize,
		NTPServer:       clock.DefaultNTPServer,
		NTPPeriod:       10 * time.Minute,
		FeedSize:        notify.DefaultFeedSize,
		Verbosity:       3,
	}
}

// loadConfig layers the yaml file at path (optional) and the environment over the defaults.
// envFile names a dotenv file loaded into the process environment when it exists.
func loadConfig(path, envFile string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %v", path)
		}
	}

	if envFile != "" {
		// variables already set in the environment win over the file
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load env file %v", envFile)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// generatorOptions resolves the draw configuration.
func (c *Config) generatorOptions() (lottery.Options, error) {
	alg, err := lottery.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return lottery.Options{}, err
	}
	enc, err := lottery.ParseEncoding(c.Encoding)
	if err != nil {
		return lottery.Options{}, err
	}
	return lottery.Options{Algorithm: alg, Encoding: enc, Limits: c.limits()}, nil
}

func (c *Config) limits() lottery.Limits {
	if c.RelaxedLimits {
		return lottery.RelaxedLimits
	}
	return lottery.StrictLimits
}

// validatorOptions parses the signer allow-list, accepting hex or base58 identities.
func (c *Config) validatorOptions() (auth.Options, error) {
	opts := auth.Options{ReplayCacheSize: c.ReplayCacheSize}
	for _, s := range c.AllowedSigners {
		if s == "" {
			continue
		}
		id, err := thor.ParseBytes32(s)
		if err != nil {
			return auth.Options{}, errors.Wrapf(err, "allowed signer %q", s)
		}
		opts.AllowedSigners = append(opts.AllowedSigners, id)
	}
	return opts, nil
}
