// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package draws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/clock"
	"github.com/vechain/lottery/entropy"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/program"
	"github.com/vechain/lottery/thor"
)

func newRouter(t *testing.T) *mux.Router {
	vrfKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	validator, err := auth.NewValidator(auth.Options{})
	require.NoError(t, err)

	prog := program.New(
		validator,
		clock.Fixed{Slot: 7, Timestamp: 1_735_689_602},
		entropy.NewVRF(vrfKey),
		lottery.New(lottery.DefaultOptions()),
		notify.Multi{},
	)
	router := mux.NewRouter()
	New(prog).Mount(router, "/draws")
	return router
}

func serve(router http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func marshal(t *testing.T, v any) string {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestDrawRequestConversion(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	player, _ := crypto.GenerateKey()
	req := auth.MustSign(&auth.Request{Identifier: "ord-9", Reference: "r", Count: 3, Nonce: 11}, signer)
	req, err := auth.CoSign(req, player)
	require.NoError(t, err)

	body := NewDrawRequest(req)
	assert.Equal(t, req, body.toRequest())

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(marshal(t, body)), &fields))
	assert.Contains(t, fields, "playerSignature")
	assert.Equal(t, "ord-9", fields["id"])

	body.PlayerSignature = nil
	assert.NotContains(t, marshal(t, body), "playerSignature")
}

func TestHandleDrawCoSigned(t *testing.T) {
	router := newRouter(t)
	signer, _ := crypto.GenerateKey()
	player, _ := crypto.GenerateKey()

	req := auth.MustSign(&auth.Request{Identifier: "ord-1", Count: 4, Nonce: 1}, signer)
	req, err := auth.CoSign(req, player)
	require.NoError(t, err)

	res := serve(router, "/draws", marshal(t, NewDrawRequest(req)))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var rec notify.Record
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &rec))
	assert.Equal(t, entropy.IdentityOf(&player.PublicKey), rec.Player)
	assert.Empty(t, rec.Proof, "a co-signed draw carries no VRF proof")
	assert.Len(t, rec.Values, 4)
}

func TestHandleDrawBadBody(t *testing.T) {
	router := newRouter(t)

	res := serve(router, "/draws", "{")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = serve(router, "/draws", `{"id":"x","signature":"0xzz"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandleVerify(t *testing.T) {
	router := newRouter(t)
	signer, _ := crypto.GenerateKey()

	res := serve(router, "/draws", marshal(t, NewDrawRequest(auth.MustSign(&auth.Request{Identifier: "ord-2", Count: 2, Nonce: 1}, signer))))
	require.Equal(t, http.StatusOK, res.Code)
	var rec notify.Record
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &rec))

	verify := func(r *notify.Record) (int, VerifyResult) {
		res := serve(router, "/draws/verify", marshal(t, r))
		var result VerifyResult
		if res.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
		}
		return res.Code, result
	}

	code, result := verify(&rec)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, result.Valid)

	foreign := rec
	foreign.Program = thor.Blake2b([]byte("other"))
	code, result = verify(&foreign)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, result.Valid)

	// a record outside the limits is a bad request, not an invalid draw
	oversized := rec
	oversized.Requested = 51
	code, _ = verify(&oversized)
	assert.Equal(t, http.StatusBadRequest, code)

	res = serve(router, "/draws/verify", `{"id":`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = serve(router, "/draws/verify", `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	// the verify route does not accept GET
	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/draws/verify", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, get.Code)
}
