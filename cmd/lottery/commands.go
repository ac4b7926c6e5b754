// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lottery/api/draws"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/clock"
	"github.com/vechain/lottery/entropy"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/lotteryclient"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/program"
)

var (
	requestFlags = []cli.Flag{
		keyFlag,
		keyFileFlag,
		playerKeyFlag,
		idFlag,
		referenceFlag,
		countFlag,
		nonceFlag,
	}

	drawCommand = cli.Command{
		Name:  "draw",
		Usage: "sign a draw request and run it locally or against a service",
		Flags: append([]cli.Flag{
			apiURLFlag,
			algorithmFlag,
			encodingFlag,
			relaxedLimitsFlag,
			vrfKeyFileFlag,
			verbosityFlag,
		}, requestFlags...),
		Action: drawAction,
	}
	verifyCommand = cli.Command{
		Name:  "verify",
		Usage: "replay a draw record and check its values",
		Flags: []cli.Flag{
			apiURLFlag,
			recordFlag,
			vrfPublicKeyFlag,
			relaxedLimitsFlag,
		},
		Action: verifyAction,
	}
	signCommand = cli.Command{
		Name:   "sign",
		Usage:  "print a signed draw request as JSON",
		Flags:  requestFlags,
		Action: signAction,
	}
	keygenCommand = cli.Command{
		Name:   "keygen",
		Usage:  "generate a signer, player or VRF key",
		Flags:  []cli.Flag{outFlag},
		Action: keygenAction,
	}
	watchCommand = cli.Command{
		Name:   "watch",
		Usage:  "print draws published by a service",
		Flags:  []cli.Flag{apiURLFlag, posFlag, backlogFlag},
		Action: watchAction,
	}
)

// buildRequest assembles and signs a request from the command flags.
func buildRequest(ctx *cli.Context) (*auth.Request, error) {
	key, err := signerKey(ctx)
	if err != nil {
		return nil, err
	}
	count := ctx.Uint(countFlag.Name)
	if count > math.MaxUint8 {
		return nil, errors.Errorf("count %d out of range", count)
	}
	nonce := ctx.Uint64(nonceFlag.Name)
	if !ctx.IsSet(nonceFlag.Name) {
		if nonce, err = randomNonce(); err != nil {
			return nil, err
		}
	}

	req, err := auth.Sign(&auth.Request{
		Identifier: ctx.String(idFlag.Name),
		Reference:  ctx.String(referenceFlag.Name),
		Count:      uint8(count),
		Nonce:      nonce,
	}, key)
	if err != nil {
		return nil, err
	}

	if s := ctx.String(playerKeyFlag.Name); s != "" {
		player, err := parseKey(s)
		if err != nil {
			return nil, errors.WithMessage(err, "player")
		}
		if req, err = auth.CoSign(req, player); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func drawAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx.Int(verbosityFlag.Name), log.FormatTerminal); err != nil {
		return err
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return err
	}

	var rec *notify.Record
	if url := ctx.String(apiURLFlag.Name); url != "" {
		rec, err = lotteryclient.New(url).Draw(req)
	} else {
		rec, err = drawLocal(ctx, req)
	}
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, rec)
}

// drawLocal runs the request through an in-process program on the system clock.
func drawLocal(ctx *cli.Context, req *auth.Request) (*notify.Record, error) {
	cfg := defaultConfig()
	applyFlags(ctx, cfg)

	genOpts, err := cfg.generatorOptions()
	if err != nil {
		return nil, err
	}
	validator, err := auth.NewValidator(auth.Options{})
	if err != nil {
		return nil, err
	}
	vrfKey, err := loadVRFKey(cfg.VRFKeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "load VRF key")
	}

	prog := program.New(
		validator,
		clock.NewSystem(),
		entropy.NewVRF(vrfKey),
		lottery.New(genOpts),
		notify.NewLogger(nil),
	)
	return prog.GenerateRandom(req)
}

func readRecord(path string) (*notify.Record, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open record")
		}
		defer f.Close()
		r = f
	}
	var rec notify.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return &rec, nil
}

func verifyAction(ctx *cli.Context) error {
	rec, err := readRecord(ctx.String(recordFlag.Name))
	if err != nil {
		return err
	}

	if url := ctx.String(apiURLFlag.Name); url != "" {
		res, err := lotteryclient.New(url).Verify(rec)
		if err != nil {
			return err
		}
		if !res.Valid {
			return errors.Errorf("invalid record: %s", res.Error)
		}
		fmt.Println("valid")
		return nil
	}

	var vrfPub []byte
	if s := ctx.String(vrfPublicKeyFlag.Name); s != "" {
		if vrfPub, err = hexutil.Decode(s); err != nil {
			return errors.Wrap(err, "decode VRF public key")
		}
	}
	limits := lottery.StrictLimits
	if ctx.Bool(relaxedLimitsFlag.Name) {
		limits = lottery.RelaxedLimits
	}
	if err := program.VerifyRecord(rec, vrfPub, limits); err != nil {
		return errors.WithMessage(err, "invalid record")
	}
	fmt.Println("valid")
	return nil
}

func signAction(ctx *cli.Context) error {
	req, err := buildRequest(ctx)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, draws.NewDrawRequest(req))
}

// KeyInfo is printed by the keygen command.
type KeyInfo struct {
	PrivateKey     string `json:"privateKey,omitempty"`
	PublicKey      string `json:"publicKey"`
	Identity       string `json:"identity"`
	IdentityBase58 string `json:"identityBase58"`
}

func newKeyInfo(key *ecdsa.PrivateKey) *KeyInfo {
	id := entropy.IdentityOf(&key.PublicKey)
	return &KeyInfo{
		PublicKey:      hexutil.Encode(crypto.CompressPubkey(&key.PublicKey)),
		Identity:       id.String(),
		IdentityBase58: id.Base58(),
	}
}

func keygenAction(ctx *cli.Context) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "generate key")
	}
	info := newKeyInfo(key)
	if out := ctx.String(outFlag.Name); out != "" {
		if err := crypto.SaveECDSA(out, key); err != nil {
			return errors.Wrap(err, "save key")
		}
	} else {
		info.PrivateKey = hexutil.Encode(crypto.FromECDSA(key))
	}
	return printJSON(os.Stdout, info)
}

func watchAction(ctx *cli.Context) error {
	url := ctx.String(apiURLFlag.Name)
	if url == "" {
		return errors.New("--api-url is required")
	}
	var pos *uint64
	if s := ctx.String(posFlag.Name); s != "" {
		p, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse pos")
		}
		pos = &p
	}

	client := lotteryclient.New(url)
	if n := ctx.Int(backlogFlag.Name); n > 0 {
		recs, err := client.RecentDraws(n)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Println(rec.Line())
		}
	}

	events, stop, err := client.SubscribeDraws(pos)
	if err != nil {
		return err
	}
	defer stop()

	exit := handleExitSignal()
	for {
		select {
		case <-exit.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Error != nil {
				return ev.Error
			}
			fmt.Println(ev.Record.Line())
		}
	}
}
