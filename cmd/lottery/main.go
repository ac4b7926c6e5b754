// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lottery/api"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/clock"
	"github.com/vechain/lottery/cmd/lottery/httpserver"
	"github.com/vechain/lottery/entropy"
	"github.com/vechain/lottery/health"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/metrics"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/program"
	"github.com/vechain/lottery/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Lottery",
		Usage:     "Verifiable random draw service",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags:     serverFlags,
		Action:    defaultAction,
		Commands: []cli.Command{
			drawCommand,
			verifyCommand,
			signCommand,
			keygenCommand,
			watchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	cfg, err := loadConfig(ctx.String(configFlag.Name), ctx.String(envFileFlag.Name))
	if err != nil {
		return err
	}
	applyFlags(ctx, cfg)

	logFormat, err := cfg.logFormat()
	if err != nil {
		return err
	}
	logLevel, err := initLogger(cfg.Verbosity, logFormat)
	if err != nil {
		return err
	}

	// must be called before any metric is used
	if cfg.EnableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	genOpts, err := cfg.generatorOptions()
	if err != nil {
		return err
	}
	valOpts, err := cfg.validatorOptions()
	if err != nil {
		return err
	}
	validator, err := auth.NewValidator(valOpts)
	if err != nil {
		return err
	}
	vrfKey, err := loadVRFKey(cfg.VRFKeyFile)
	if err != nil {
		return errors.Wrap(err, "load VRF key")
	}

	sys := clock.NewSystem()
	var (
		clk     clock.Clock = sys
		ntp     *clock.NTP
		checker *health.Health
	)
	if cfg.DisableNTP {
		checker = health.New(nil)
	} else {
		ntp = clock.NewNTP(sys, cfg.NTPServer)
		clk = ntp
		checker = health.New(ntp)
	}

	feed := notify.NewFeed(cfg.FeedSize)
	prog := program.New(
		validator,
		clk,
		entropy.NewVRF(vrfKey),
		lottery.New(genOpts),
		notify.Multi{notify.NewLogger(nil), feed, checker},
	)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(cfg.EnableAPILogs)

	apiHandler, apiCloser := api.New(prog, feed, api.Options{
		AllowedOrigins:       cfg.APICors,
		Version:              fullVersion(),
		EnableMetrics:        cfg.EnableMetrics,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: cfg.APISlowQueries,
		Log5xxErrors:         cfg.APILog5xxErrors,
	})
	defer func() { logger.Info("closing subscriptions..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(cfg.APIAddr, apiHandler, cfg.APITimeout)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	metricsURL := ""
	if cfg.EnableMetrics {
		url, closeFunc, err := httpserver.StartMetricsServer(cfg.MetricsAddr)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	adminURL := ""
	if cfg.EnableAdmin {
		url, closeFunc, err := httpserver.StartAdminServer(cfg.AdminAddr, logLevel, apiLogs, checker)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	printStartupMessage(genOpts, prog.VRFPublicKey(), apiURL, metricsURL, adminURL)

	group, gctx := errgroup.WithContext(exitSignal)
	if ntp != nil {
		group.Go(func() error {
			return ntp.Run(gctx, cfg.NTPPeriod)
		})
	}
	group.Go(func() error {
		<-gctx.Done()
		return nil
	})
	return group.Wait()
}

func printStartupMessage(opts lottery.Options, vrfPub []byte, apiURL, metricsURL, adminURL string) {
	orNone := func(s string) string {
		if s == "" {
			return "disabled"
		}
		return s
	}
	fmt.Printf(`Starting %v
    Program      [ %v ]
    Draws        [ %v %v max-count=%v ]
    VRF key      [ 0x%x ]
    Slots        [ from %v every %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		"Lottery "+fullVersion(),
		thor.ProgramID.Base58(),
		opts.Algorithm, opts.Encoding, opts.Limits.MaxCount,
		vrfPub,
		thor.GenesisTime.Format(time.RFC3339), thor.SlotInterval,
		apiURL,
		orNone(metricsURL),
		orNone(adminURL),
	)
}
