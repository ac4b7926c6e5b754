// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package program binds the lottery generator to its collaborators: request
// authorization, the slot clock, the player entropy source and record publication.
package program

import (
	"github.com/pkg/errors"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/clock"
	"github.com/vechain/lottery/entropy"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/metrics"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/thor"
)

var (
	logger = log.WithContext("pkg", "program")

	metricRequests = metrics.LazyLoadCounterVec("program_requests_count", []string{"result"})
)

var (
	ErrForeignProgram = errors.New("record belongs to another program")
	ErrProofMismatch  = errors.New("vrf proof does not select the recorded player")
)

// Program serves draw requests. It keeps no state between invocations apart from
// the validator's replay cache.
type Program struct {
	validator *auth.Validator
	clock     clock.Clock
	vrf       *entropy.VRF
	gen       *lottery.Generator
	notifier  notify.Notifier
}

// New creates a program. The vrf key selects the player for requests without a
// player co-signature.
func New(
	validator *auth.Validator,
	clk clock.Clock,
	vrf *entropy.VRF,
	gen *lottery.Generator,
	notifier notify.Notifier,
) *Program {
	return &Program{
		validator: validator,
		clock:     clk,
		vrf:       vrf,
		gen:       gen,
		notifier:  notifier,
	}
}

// Options returns the generator configuration.
func (p *Program) Options() lottery.Options {
	return p.gen.Options()
}

// VRFPublicKey returns the compressed public key used to verify player proofs.
func (p *Program) VRFPublicKey() []byte {
	return p.vrf.PublicKey()
}

// GenerateRandom runs one invocation: limits, authorization, a single clock
// reading, player selection, the draw, then publication.
func (p *Program) GenerateRandom(req *auth.Request) (*notify.Record, error) {
	rec, err := p.generate(req)
	switch {
	case err == nil:
		metricRequests().AddWithLabel(1, map[string]string{"result": "ok"})
	case lottery.IsValidationError(err):
		metricRequests().AddWithLabel(1, map[string]string{"result": "invalid"})
	case auth.IsAuthorizationError(err):
		metricRequests().AddWithLabel(1, map[string]string{"result": "unauthorized"})
	default:
		metricRequests().AddWithLabel(1, map[string]string{"result": "error"})
	}
	return rec, err
}

func (p *Program) generate(req *auth.Request) (*notify.Record, error) {
	fields := &lottery.Fields{
		Identifier: req.Identifier,
		Count:      req.Count,
		Reference:  req.Reference,
	}
	// reject oversized input before any signature or vrf work
	if err := p.gen.Options().Limits.Check(fields); err != nil {
		return nil, err
	}

	grant, err := p.validator.Authorize(req)
	if err != nil {
		return nil, err
	}
	if fields.Signer, err = grant.Signer.Identity(); err != nil {
		return nil, errors.Wrap(err, "signer identity")
	}

	reading := p.clock.Now()
	fields.Slot = reading.Slot
	fields.Timestamp = reading.Timestamp

	var proof []byte
	player := grant.Player
	if player == nil {
		proved, err := p.vrf.Prove(req.Identifier, reading.Slot)
		if err != nil {
			return nil, err
		}
		player, proof = proved, proved.Proof
	}
	if fields.Player, err = player.Identity(); err != nil {
		return nil, errors.Wrap(err, "player identity")
	}

	draw, err := p.gen.Generate(fields)
	if err != nil {
		return nil, err
	}

	rec := notify.NewRecord(fields, draw, p.gen.Options())
	rec.Proof = proof
	if err := p.notifier.Notify(rec); err != nil {
		logger.Warn("failed to publish draw", "id", rec.Identifier, "err", err)
	}
	logger.Debug("draw generated", "id", rec.Identifier, "values", len(rec.Values), "slot", rec.Slot)
	return rec, nil
}

// Verify replays a published record. A record carrying a vrf proof must also prove
// its player under this program's vrf key.
func (p *Program) Verify(rec *notify.Record) error {
	return VerifyRecord(rec, p.VRFPublicKey(), p.gen.Options().Limits)
}

// VerifyRecord replays rec offline. The vrf proof, if any, is checked against vrfPublicKey;
// a nil key skips that check.
func VerifyRecord(rec *notify.Record, vrfPublicKey []byte, limits lottery.Limits) error {
	if rec.Program != thor.ProgramID {
		return errors.WithMessagef(ErrForeignProgram, "program %v", rec.Program.Base58())
	}
	if len(rec.Proof) > 0 && vrfPublicKey != nil {
		player, err := entropy.VerifyVRF(vrfPublicKey, rec.Identifier, rec.Slot, rec.Proof)
		if err != nil {
			return err
		}
		if player != rec.Player {
			return ErrProofMismatch
		}
	}
	opts, err := rec.Options(limits)
	if err != nil {
		return err
	}
	return lottery.New(opts).Verify(rec.Fields(), rec.Values)
}
