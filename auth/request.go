// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"crypto/ecdsa"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/vechain/lottery/thor"
)

// Request is a signed draw request.
type Request struct {
	Identifier      string
	Reference       string
	Count           uint8
	Nonce           uint64
	Signature       []byte // by the signer
	PlayerSignature []byte // optional co-signature by the player
}

// SigningHash returns the hash both signatures are made over.
// The program id is included so a signature is bound to this deployment.
func (r *Request) SigningHash() thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			thor.ProgramID,
			r.Identifier,
			r.Reference,
			r.Count,
			r.Nonce,
		})
	})
}

// Sign signs the request by the signer key and returns a copy with the signature set.
func Sign(r *Request, key *ecdsa.PrivateKey) (*Request, error) {
	sig, err := crypto.Sign(r.SigningHash().Bytes(), key)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign request")
	}
	cpy := *r
	cpy.Signature = sig
	return &cpy, nil
}

// CoSign adds the player co-signature and returns a copy of the request.
func CoSign(r *Request, key *ecdsa.PrivateKey) (*Request, error) {
	sig, err := crypto.Sign(r.SigningHash().Bytes(), key)
	if err != nil {
		return nil, errors.Wrap(err, "unable to co-sign request")
	}
	cpy := *r
	cpy.PlayerSignature = sig
	return &cpy, nil
}

// MustSign is like Sign but panics on error.
func MustSign(r *Request, key *ecdsa.PrivateKey) *Request {
	signed, err := Sign(r, key)
	if err != nil {
		panic(err)
	}
	return signed
}
