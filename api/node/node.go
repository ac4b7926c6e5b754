// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/vechain/lottery/api/utils"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/thor"
)

// Limits mirrors lottery.Limits in JSON.
type Limits struct {
	MaxCount         uint8 `json:"maxCount"`
	MaxIdentifierLen int   `json:"maxIdentifierLength"`
}

// Info describes the deployment: its identity and how its draws are computed.
type Info struct {
	Program      string        `json:"program"`
	ProgramHex   thor.Bytes32  `json:"programHex"`
	Version      string        `json:"version"`
	Algorithm    string        `json:"algorithm"`
	Encoding     string        `json:"encoding"`
	Limits       Limits        `json:"limits"`
	MaxRange     uint64        `json:"maxRange"`
	VRFPublicKey hexutil.Bytes `json:"vrfPublicKey"`
}

// NewInfo builds the info of a deployment running opts.
func NewInfo(version string, opts lottery.Options, vrfPublicKey []byte) Info {
	return Info{
		Program:    thor.ProgramID.Base58(),
		ProgramHex: thor.ProgramID,
		Version:    version,
		Algorithm:  opts.Algorithm.String(),
		Encoding:   opts.Encoding.String(),
		Limits: Limits{
			MaxCount:         opts.Limits.MaxCount,
			MaxIdentifierLen: opts.Limits.MaxIdentifierLen,
		},
		MaxRange:     lottery.MaxRange,
		VRFPublicKey: vrfPublicKey,
	}
}

type Node struct {
	info Info
}

func New(info Info) *Node {
	return &Node{info}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.info)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
