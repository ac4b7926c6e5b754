// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lottery/log"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

// initLogger installs the root logger and returns its level, adjustable at runtime.
func initLogger(verbosity int, format log.Format) (*slog.LevelVar, error) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(verbosity))

	fd := os.Stderr.Fd()
	useColor := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
	handler, err := log.NewHandler(format, os.Stderr, &level, useColor)
	if err != nil {
		return nil, err
	}
	log.SetDefault(log.NewLogger(handler))
	return &level, nil
}

// loadKey reads the key in keyFile, generating and saving one when the file does not exist.
func loadKey(keyFile string) (key *ecdsa.PrivateKey, err error) {
	// try to load from file
	if key, err = crypto.LoadECDSA(keyFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		return key, nil
	}

	// no such file, generate new key and write in
	key, err = crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	if err := crypto.SaveECDSA(keyFile, key); err != nil {
		return nil, err
	}
	return key, nil
}

// loadVRFKey returns the key in keyFile, or an ephemeral one when no file is configured.
func loadVRFKey(keyFile string) (*ecdsa.PrivateKey, error) {
	if keyFile == "" {
		logger.Warn("no VRF key file configured, player proofs will not verify after restart")
		return crypto.GenerateKey()
	}
	return loadKey(keyFile)
}

func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse key")
	}
	return key, nil
}

// signerKey resolves the signer key from the --key or --key-file flags.
func signerKey(ctx *cli.Context) (*ecdsa.PrivateKey, error) {
	if s := ctx.String(keyFlag.Name); s != "" {
		return parseKey(s)
	}
	if path := ctx.String(keyFileFlag.Name); path != "" {
		key, err := crypto.LoadECDSA(path)
		if err != nil {
			return nil, errors.Wrap(err, "load key file")
		}
		return key, nil
	}
	return nil, errors.New("a signer key is required (--key or --key-file)")
}

// randomNonce returns a nonce from the system random source.
func randomNonce() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return 0, errors.Wrap(err, "read random nonce")
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// applyFlags overlays the flags set on the command line onto cfg.
func applyFlags(ctx *cli.Context, cfg *Config) {
	str := func(f cli.StringFlag, dst *string) {
		if ctx.IsSet(f.Name) {
			*dst = ctx.String(f.Name)
		}
	}
	boolean := func(f cli.BoolFlag, dst *bool) {
		if ctx.IsSet(f.Name) {
			*dst = ctx.Bool(f.Name)
		}
	}
	integer := func(f cli.IntFlag, dst *int) {
		if ctx.IsSet(f.Name) {
			*dst = ctx.Int(f.Name)
		}
	}
	duration := func(f cli.DurationFlag, dst *time.Duration) {
		if ctx.IsSet(f.Name) {
			*dst = ctx.Duration(f.Name)
		}
	}

	str(apiAddrFlag, &cfg.APIAddr)
	str(apiCorsFlag, &cfg.APICors)
	duration(apiTimeoutFlag, &cfg.APITimeout)
	boolean(enableAPILogsFlag, &cfg.EnableAPILogs)
	duration(apiSlowQueriesThresholdFlag, &cfg.APISlowQueries)
	boolean(apiLog5xxErrorsFlag, &cfg.APILog5xxErrors)
	boolean(enableMetricsFlag, &cfg.EnableMetrics)
	str(metricsAddrFlag, &cfg.MetricsAddr)
	boolean(enableAdminFlag, &cfg.EnableAdmin)
	str(adminAddrFlag, &cfg.AdminAddr)
	str(algorithmFlag, &cfg.Algorithm)
	str(encodingFlag, &cfg.Encoding)
	boolean(relaxedLimitsFlag, &cfg.RelaxedLimits)
	if ctx.IsSet(allowedSignersFlag.Name) {
		cfg.AllowedSigners = splitList(ctx.String(allowedSignersFlag.Name))
	}
	integer(replayCacheSizeFlag, &cfg.ReplayCacheSize)
	str(vrfKeyFileFlag, &cfg.VRFKeyFile)
	str(ntpServerFlag, &cfg.NTPServer)
	duration(ntpPeriodFlag, &cfg.NTPPeriod)
	boolean(disableNTPFlag, &cfg.DisableNTP)
	integer(feedSizeFlag, &cfg.FeedSize)
	integer(verbosityFlag, &cfg.Verbosity)
	boolean(jsonLogsFlag, &cfg.JSONLogs)
	str(logFormatFlag, &cfg.LogFormat)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
