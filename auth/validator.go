// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/vechain/lottery/cache"
	"github.com/vechain/lottery/entropy"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/thor"
)

var logger = log.WithContext("pkg", "auth")

// AuthorizationError rejects a request before it reaches the draw.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "unauthorized: " + e.Reason
}

// IsAuthorizationError reports whether err, or any error it wraps, is an AuthorizationError.
func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// Grant is the outcome of a successful authorization.
type Grant struct {
	SigningHash thor.Bytes32
	Signer      entropy.Source
	Player      entropy.Source // nil when the request was not co-signed
}

// Options configures a Validator.
type Options struct {
	// AllowedSigners restricts who may request draws. Empty allows any signer.
	AllowedSigners []thor.Bytes32
	// ReplayCacheSize is how many recent signing hashes are remembered.
	ReplayCacheSize int
}

// DefaultReplayCacheSize is used when Options.ReplayCacheSize is not positive.
const DefaultReplayCacheSize = 4096

// Validator checks signatures and rejects replays.
type Validator struct {
	allowed map[thor.Bytes32]struct{}
	seen    *cache.LRU
	stats   cache.Stats
}

// NewValidator creates a Validator.
func NewValidator(opts Options) (*Validator, error) {
	size := opts.ReplayCacheSize
	if size <= 0 {
		size = DefaultReplayCacheSize
	}
	seen, err := cache.NewLRU(size)
	if err != nil {
		return nil, errors.Wrap(err, "replay cache")
	}
	v := &Validator{seen: seen}
	if len(opts.AllowedSigners) > 0 {
		v.allowed = make(map[thor.Bytes32]struct{}, len(opts.AllowedSigners))
		for _, s := range opts.AllowedSigners {
			v.allowed[s] = struct{}{}
		}
	}
	return v, nil
}

func recoverKey(hash thor.Bytes32, sig []byte) (*ecdsa.PublicKey, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, errors.New("invalid signature length")
	}
	return crypto.SigToPub(hash.Bytes(), sig)
}

// Authorize verifies the request. The replay record is only taken once every
// other check has passed, so a rejected request may be corrected and resent.
func (v *Validator) Authorize(r *Request) (*Grant, error) {
	if len(r.Signature) == 0 {
		return nil, &AuthorizationError{"missing signature"}
	}
	hash := r.SigningHash()

	pub, err := recoverKey(hash, r.Signature)
	if err != nil {
		return nil, &AuthorizationError{"bad signature: " + err.Error()}
	}
	signer := entropy.IdentityOf(pub)
	if v.allowed != nil {
		if _, ok := v.allowed[signer]; !ok {
			return nil, &AuthorizationError{"signer " + signer.AbbrevString() + " not allowed"}
		}
	}

	grant := &Grant{SigningHash: hash, Signer: entropy.Static(signer)}
	if len(r.PlayerSignature) > 0 {
		ppub, err := recoverKey(hash, r.PlayerSignature)
		if err != nil {
			return nil, &AuthorizationError{"bad player signature: " + err.Error()}
		}
		grant.Player = entropy.FromPublicKey(ppub)
	}

	if v.seen.Mark(hash) {
		v.stats.Hit()
		logger.Debug("replayed request", "hash", hash.AbbrevString(), "id", r.Identifier)
		return nil, &AuthorizationError{"replayed request"}
	}
	v.stats.Miss()
	if changed, replayed, fresh := v.stats.Stats(); changed {
		logger.Debug("replay rate changed", "replayed", replayed, "fresh", fresh)
	}
	return grant, nil
}
