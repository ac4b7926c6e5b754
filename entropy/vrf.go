// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entropy

import (
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/vechain/go-ecvrf"
	"github.com/vechain/lottery/thor"
)

// VRF selects a platform identity for a draw. The platform proves
// beta = VRF(sk, alpha) over the draw identifier and slot, so anyone holding the
// public key can check the value was not picked after the fact.
type VRF struct {
	key *ecdsa.PrivateKey
}

// NewVRF creates a VRF source backed by the platform key.
func NewVRF(key *ecdsa.PrivateKey) *VRF {
	return &VRF{key: key}
}

// PublicKey returns the compressed platform public key.
func (v *VRF) PublicKey() []byte {
	return crypto.CompressPubkey(&v.key.PublicKey)
}

// Alpha is the VRF input for a draw.
func Alpha(identifier string, slot uint64) []byte {
	alpha := make([]byte, 0, len(identifier)+8)
	alpha = append(alpha, identifier...)
	return binary.LittleEndian.AppendUint64(alpha, slot)
}

// Proved is a platform identity together with the proof that selected it.
type Proved struct {
	Beta  thor.Bytes32
	Proof []byte
}

// Identity implements Source.
func (p *Proved) Identity() (thor.Bytes32, error) {
	return p.Beta, nil
}

// Prove selects the platform identity for the given draw.
func (v *VRF) Prove(identifier string, slot uint64) (*Proved, error) {
	beta, proof, err := ecvrf.Secp256k1Sha256Tai.Prove(v.key, Alpha(identifier, slot))
	if err != nil {
		return nil, errors.Wrap(err, "vrf prove")
	}
	if len(beta) != 32 {
		return nil, errors.Errorf("unexpected vrf output length %d", len(beta))
	}
	return &Proved{Beta: thor.Bytes32(beta), Proof: proof}, nil
}

// VerifyVRF checks a proof against the compressed platform key and returns the selected identity.
func VerifyVRF(pub []byte, identifier string, slot uint64, proof []byte) (thor.Bytes32, error) {
	pubkey, err := crypto.DecompressPubkey(pub)
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "decompress vrf public key")
	}
	beta, err := ecvrf.Secp256k1Sha256Tai.Verify(pubkey, Alpha(identifier, slot), proof)
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "vrf verify")
	}
	return thor.BytesToBytes32(beta), nil
}
