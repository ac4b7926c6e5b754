// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"crypto/ecdsa"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/clock"
	"github.com/vechain/lottery/entropy"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/thor"
)

type fixture struct {
	prog   *Program
	feed   *notify.Feed
	signer *ecdsa.PrivateKey
	nonce  uint64
}

func newFixture(t *testing.T) *fixture {
	signer, err := crypto.GenerateKey()
	require.NoError(t, err)
	vrfKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	validator, err := auth.NewValidator(auth.Options{})
	require.NoError(t, err)

	feed := notify.NewFeed(8)
	prog := New(
		validator,
		clock.Fixed{Slot: 1234, Timestamp: 1_735_689_700},
		entropy.NewVRF(vrfKey),
		lottery.New(lottery.DefaultOptions()),
		feed,
	)
	return &fixture{prog: prog, feed: feed, signer: signer}
}

func (f *fixture) request(id string, count uint8) *auth.Request {
	f.nonce++
	return auth.MustSign(&auth.Request{Identifier: id, Reference: "ref", Count: count, Nonce: f.nonce}, f.signer)
}

func TestGenerateRandom(t *testing.T) {
	f := newFixture(t)

	rec, err := f.prog.GenerateRandom(f.request("ord-1", 5))
	require.NoError(t, err)

	assert.Equal(t, "ord-1", rec.Identifier)
	assert.Equal(t, uint64(1234), rec.Slot)
	assert.Equal(t, int64(1_735_689_700), rec.Timestamp)
	assert.Equal(t, entropy.IdentityOf(&f.signer.PublicKey), rec.Signer)
	assert.NotEmpty(t, rec.Proof, "player selected by vrf")
	assert.Len(t, rec.Values, 5)

	published := f.feed.Recent(1)
	require.Len(t, published, 1)
	assert.Same(t, rec, published[0])

	assert.NoError(t, f.prog.Verify(rec))
}

func TestGenerateRandomCoSigned(t *testing.T) {
	f := newFixture(t)
	player, _ := crypto.GenerateKey()

	req, err := auth.CoSign(f.request("ord-2", 3), player)
	require.NoError(t, err)

	rec, err := f.prog.GenerateRandom(req)
	require.NoError(t, err)
	assert.Equal(t, entropy.IdentityOf(&player.PublicKey), rec.Player)
	assert.Empty(t, rec.Proof)
	assert.NoError(t, f.prog.Verify(rec))
}

func TestGenerateRandomValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.prog.GenerateRandom(f.request(strings.Repeat("x", 17), 1))
	assert.True(t, lottery.IsValidationError(err))

	_, err = f.prog.GenerateRandom(f.request("ord", 51))
	assert.True(t, lottery.IsValidationError(err))

	// an unsigned oversized request fails validation, not authorization
	_, err = f.prog.GenerateRandom(&auth.Request{Identifier: "ord", Count: 200})
	assert.True(t, lottery.IsValidationError(err))

	assert.Equal(t, uint64(0), f.feed.Head(), "nothing published")
}

func TestGenerateRandomUnauthorized(t *testing.T) {
	f := newFixture(t)
	req := f.request("ord", 1)

	_, err := f.prog.GenerateRandom(req)
	require.NoError(t, err)

	_, err = f.prog.GenerateRandom(req)
	assert.True(t, auth.IsAuthorizationError(err))

	_, err = f.prog.GenerateRandom(&auth.Request{Identifier: "ord", Count: 1})
	assert.True(t, auth.IsAuthorizationError(err))
}

func TestVerifyTampered(t *testing.T) {
	f := newFixture(t)
	rec, err := f.prog.GenerateRandom(f.request("ord-3", 4))
	require.NoError(t, err)

	values := *rec
	values.Values = append([]uint32{}, rec.Values...)
	values.Values[1]++
	assert.True(t, errors.Is(f.prog.Verify(&values), lottery.ErrReplayMismatch))

	player := *rec
	player.Player = thor.Blake2b([]byte("someone else"))
	assert.True(t, errors.Is(f.prog.Verify(&player), ErrProofMismatch))

	foreign := *rec
	foreign.Program = thor.Blake2b([]byte("other"))
	assert.True(t, errors.Is(f.prog.Verify(&foreign), ErrForeignProgram))

	slot := *rec
	slot.Slot++
	assert.Error(t, f.prog.Verify(&slot))
}

func TestVerifyWithOtherOptions(t *testing.T) {
	f := newFixture(t)
	rec, err := f.prog.GenerateRandom(f.request("ord-4", 2))
	require.NoError(t, err)

	// the record names its own algorithm and encoding
	rec.Algorithm = lottery.Keccak256.String()
	assert.True(t, errors.Is(f.prog.Verify(rec), lottery.ErrReplayMismatch))

	rec.Algorithm = "sha1"
	assert.Error(t, f.prog.Verify(rec))
}

func TestVerifyRecordOffline(t *testing.T) {
	f := newFixture(t)
	rec, err := f.prog.GenerateRandom(f.request("ord-5", 3))
	require.NoError(t, err)

	// without the vrf key only the replay is checked
	forged := *rec
	forged.Player = thor.Blake2b([]byte("forged"))
	assert.True(t, errors.Is(VerifyRecord(&forged, nil, lottery.StrictLimits), lottery.ErrReplayMismatch))

	assert.NoError(t, VerifyRecord(rec, nil, lottery.StrictLimits))
	assert.NoError(t, VerifyRecord(rec, f.prog.VRFPublicKey(), lottery.StrictLimits))
}
