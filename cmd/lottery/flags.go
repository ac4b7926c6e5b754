// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a yaml configuration file",
	}
	envFileFlag = cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "dotenv file loaded into the environment when present",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.DurationFlag{
		Name:  "api-timeout",
		Value: 10 * time.Second,
		Usage: "API request timeout",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Usage: "only log API requests slower than the threshold (0 logs all)",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "always log API requests answered with 5xx",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	algorithmFlag = cli.StringFlag{
		Name:  "algorithm",
		Value: "blake3",
		Usage: "seed and expansion hash (blake3|blake2b|keccak256)",
	}
	encodingFlag = cli.StringFlag{
		Name:  "encoding",
		Value: "framed",
		Usage: "entropy serialization (framed|compact)",
	}
	relaxedLimitsFlag = cli.BoolFlag{
		Name:  "relaxed-limits",
		Usage: "lift the identifier length bound and allow up to 255 values",
	}
	allowedSignersFlag = cli.StringFlag{
		Name:  "allowed-signers",
		Usage: "comma separated list of signer identities (hex or base58) allowed to request draws",
	}
	replayCacheSizeFlag = cli.IntFlag{
		Name:  "replay-cache-size",
		Value: 4096,
		Usage: "number of recent requests remembered to reject replays",
	}
	vrfKeyFileFlag = cli.StringFlag{
		Name:  "vrf-key",
		Usage: "file of the VRF key used to pick players (generated if missing, ephemeral if unset)",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to correct the clock",
	}
	ntpPeriodFlag = cli.DurationFlag{
		Name:  "ntp-period",
		Value: 10 * time.Minute,
		Usage: "interval between NTP queries",
	}
	disableNTPFlag = cli.BoolFlag{
		Name:  "disable-ntp",
		Usage: "use the system clock as is",
	}
	feedSizeFlag = cli.IntFlag{
		Name:  "feed-size",
		Value: 256,
		Usage: "number of recent draws kept for subscriptions",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format (same as --log-format json)",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Usage: "log output format: terminal, json or logfmt",
	}

	// client side
	apiURLFlag = cli.StringFlag{
		Name:  "api-url",
		Usage: "URL of a running service, local execution if unset",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex encoded signer private key",
	}
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "file of the signer private key",
	}
	playerKeyFlag = cli.StringFlag{
		Name:  "player-key",
		Usage: "hex encoded player private key to co-sign the request",
	}
	idFlag = cli.StringFlag{
		Name:  "id",
		Usage: "draw identifier",
	}
	referenceFlag = cli.StringFlag{
		Name:  "reference",
		Usage: "caller supplied reference bound into the entropy",
	}
	countFlag = cli.UintFlag{
		Name:  "count",
		Value: 1,
		Usage: "number of values to draw",
	}
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "request nonce, random if unset",
	}
	recordFlag = cli.StringFlag{
		Name:  "record",
		Usage: "file of the JSON draw record to verify (stdin if unset)",
	}
	vrfPublicKeyFlag = cli.StringFlag{
		Name:  "vrf-public-key",
		Usage: "hex encoded VRF public key to check the player proof against",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "file the generated key is saved to",
	}
	posFlag = cli.StringFlag{
		Name:  "pos",
		Usage: "feed position to resume from, the next draw if unset",
	}
	backlogFlag = cli.IntFlag{
		Name:  "backlog",
		Usage: "number of recent draws to print before streaming",
	}
)

// serverFlags are the flags of the default action.
var serverFlags = []cli.Flag{
	configFlag,
	envFileFlag,
	apiAddrFlag,
	apiCorsFlag,
	apiTimeoutFlag,
	enableAPILogsFlag,
	apiSlowQueriesThresholdFlag,
	apiLog5xxErrorsFlag,
	enableMetricsFlag,
	metricsAddrFlag,
	enableAdminFlag,
	adminAddrFlag,
	algorithmFlag,
	encodingFlag,
	relaxedLimitsFlag,
	allowedSignersFlag,
	replayCacheSizeFlag,
	vrfKeyFileFlag,
	ntpServerFlag,
	ntpPeriodFlag,
	disableNTPFlag,
	feedSizeFlag,
	verbosityFlag,
	jsonLogsFlag,
	logFormatFlag,
}
