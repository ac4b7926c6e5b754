// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package entropy provides the identity values mixed into a draw.
//
// A Source is the explicit trust boundary: whoever constructs one vouches for
// the value it returns. Nothing in the draw itself checks where an identity
// came from.
package entropy

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/vechain/lottery/thor"
)

// Source returns a fixed-length identity value.
type Source interface {
	Identity() (thor.Bytes32, error)
}

// Static is a Source with a known value.
type Static thor.Bytes32

// Identity implements Source.
func (s Static) Identity() (thor.Bytes32, error) {
	return thor.Bytes32(s), nil
}

// IdentityOf derives the 32-byte identity of a secp256k1 public key,
// the blake2b-256 of its uncompressed encoding without the 0x04 prefix.
func IdentityOf(pub *ecdsa.PublicKey) thor.Bytes32 {
	return thor.Blake2b(crypto.FromECDSAPub(pub)[1:])
}

// FromPublicKey returns a Source yielding the identity of pub.
func FromPublicKey(pub *ecdsa.PublicKey) Source {
	return Static(IdentityOf(pub))
}
