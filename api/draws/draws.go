// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package draws

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/lottery/api/utils"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/notify"
	"github.com/vechain/lottery/program"
)

type Draws struct {
	prog *program.Program
}

func New(prog *program.Program) *Draws {
	return &Draws{prog}
}

func (d *Draws) handleDraw(w http.ResponseWriter, req *http.Request) error {
	var body DrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	rec, err := d.prog.GenerateRandom(body.toRequest())
	if err != nil {
		switch {
		case lottery.IsValidationError(err):
			return utils.BadRequest(err)
		case auth.IsAuthorizationError(err):
			return utils.Forbidden(err)
		}
		return err
	}
	return utils.WriteJSON(w, rec)
}

func (d *Draws) handleVerify(w http.ResponseWriter, req *http.Request) error {
	var rec notify.Record
	if err := utils.ParseJSON(req.Body, &rec); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := d.prog.Verify(&rec); err != nil {
		if lottery.IsValidationError(err) {
			return utils.BadRequest(err)
		}
		return utils.WriteJSON(w, &VerifyResult{Valid: false, Error: err.Error()})
	}
	return utils.WriteJSON(w, &VerifyResult{Valid: true})
}

func (d *Draws) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /draws").
		HandlerFunc(utils.WrapHandlerFunc(d.handleDraw))
	sub.Path("/verify").
		Methods(http.MethodPost).
		Name("POST /draws/verify").
		HandlerFunc(utils.WrapHandlerFunc(d.handleVerify))
}
