// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/metrics"
	"github.com/vechain/lottery/thor"
)

var (
	logger = log.WithContext("pkg", "lottery")

	metricDraws     = metrics.LazyLoadCounterVec("draws_count", []string{"result"})
	metricBatchSize = metrics.LazyLoadHistogram("draw_batch_size", metrics.BucketBatch)
)

// Stage is a step of a single draw.
type Stage uint8

const (
	StageIdle Stage = iota
	StageValidating
	StageHashing
	StageSampling
	StageDone
	StageRejected
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageHashing:
		return "hashing"
	case StageSampling:
		return "sampling"
	case StageDone:
		return "done"
	case StageRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Options configures a Generator.
type Options struct {
	Algorithm Algorithm
	Encoding  Encoding
	Limits    Limits
}

// DefaultOptions returns blake3 over framed fields with strict limits.
func DefaultOptions() Options {
	return Options{
		Algorithm: Blake3,
		Encoding:  EncodingFramed,
		Limits:    StrictLimits,
	}
}

// Draw is the outcome of one invocation.
type Draw struct {
	Identifier string
	Requested  uint8
	Values     []uint32
	Seed       thor.Bytes32
	Attempts   int // slot counters consumed, accepted or not
}

// Truncated reports whether sampling stopped at a rejection before
// Requested values were collected.
func (d *Draw) Truncated() bool {
	return len(d.Values) < int(d.Requested)
}

// Generator runs draws. It holds configuration only, so one Generator may
// serve concurrent invocations.
type Generator struct {
	opts Options

	// test hooks
	expand  func(seed thor.Bytes32, counter int32) uint64
	onStage func(Stage)
}

// New creates a Generator.
func New(opts Options) *Generator {
	return &Generator{
		opts:   opts,
		expand: opts.Algorithm.Expand,
	}
}

// Options returns the generator configuration.
func (g *Generator) Options() Options {
	return g.opts
}

func (g *Generator) enter(s Stage) {
	if g.onStage != nil {
		g.onStage(s)
	}
}

// Generate validates the fields, derives the seed once and samples up to
// Count values. Sampling stops at the first rejected slot, the short batch
// is the signal of that rejection.
func (g *Generator) Generate(f *Fields) (*Draw, error) {
	g.enter(StageValidating)
	if err := g.opts.Limits.Check(f); err != nil {
		g.enter(StageRejected)
		metricDraws().AddWithLabel(1, map[string]string{"result": "invalid"})
		return nil, err
	}

	g.enter(StageHashing)
	seed := g.opts.Algorithm.Seed(g.opts.Encoding.Encode(f))

	g.enter(StageSampling)
	draw := &Draw{
		Identifier: f.Identifier,
		Requested:  f.Count,
		Values:     make([]uint32, 0, f.Count),
		Seed:       seed,
	}
	for counter := int32(1); len(draw.Values) < int(f.Count); counter++ {
		draw.Attempts++
		v, ok := Sample(g.expand(seed, counter))
		if !ok {
			logger.Debug("sample rejected, batch truncated", "id", f.Identifier, "counter", counter)
			break
		}
		draw.Values = append(draw.Values, v)
	}
	g.enter(StageDone)

	result := "done"
	if draw.Truncated() {
		result = "truncated"
	}
	metricDraws().AddWithLabel(1, map[string]string{"result": result})
	metricBatchSize().Observe(int64(len(draw.Values)))

	return draw, nil
}

// Verify re-runs a draw from recorded fields and checks it reproduces values.
func (g *Generator) Verify(f *Fields, values []uint32) error {
	draw, err := g.Generate(f)
	if err != nil {
		return err
	}
	if !slices.Equal(draw.Values, values) {
		return errors.WithMessagef(ErrReplayMismatch, "id %s: want %v, got %v", f.Identifier, draw.Values, values)
	}
	return nil
}
