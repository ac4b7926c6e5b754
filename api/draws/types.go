// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package draws

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vechain/lottery/auth"
)

// DrawRequest is the JSON body of POST /draws.
type DrawRequest struct {
	ID              string        `json:"id"`
	Reference       string        `json:"reference"`
	Count           uint8         `json:"count"`
	Nonce           uint64        `json:"nonce"`
	Signature       hexutil.Bytes `json:"signature"`
	PlayerSignature hexutil.Bytes `json:"playerSignature,omitempty"`
}

// NewDrawRequest converts a signed request into its JSON form.
func NewDrawRequest(r *auth.Request) *DrawRequest {
	return &DrawRequest{
		ID:              r.Identifier,
		Reference:       r.Reference,
		Count:           r.Count,
		Nonce:           r.Nonce,
		Signature:       r.Signature,
		PlayerSignature: r.PlayerSignature,
	}
}

func (d *DrawRequest) toRequest() *auth.Request {
	return &auth.Request{
		Identifier:      d.ID,
		Reference:       d.Reference,
		Count:           d.Count,
		Nonce:           d.Nonce,
		Signature:       d.Signature,
		PlayerSignature: d.PlayerSignature,
	}
}

// VerifyResult is the response of POST /draws/verify.
type VerifyResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
