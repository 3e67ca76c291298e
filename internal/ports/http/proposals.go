package http

import (
	"context"
	"dao-explorer/internal/app"
	"dao-explorer/internal/config"
	"dao-explorer/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"blockwatch.cc/tzgo/tezos"
	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// maxBodySize limits request bodies to 1MB.
const maxBodySize = 1 << 20

func (ser *server) getDAOs(w http.ResponseWriter, r *http.Request) {
	ser.writeJSON(w, http.StatusOK, ser.app.ListDAOs())
}

func (ser *server) getProposals(w http.ResponseWriter, r *http.Request) {
	address, err := readDAOAddress(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var status model.ProposalStatus
	if value := normalize(r.URL.Query().Get("status")); value != "" {
		var ok bool
		if status, ok = model.ParseProposalStatus(value); !ok {
			ser.badRequest(w, fmt.Sprintf("unknown proposal status %q", value))
			return
		}
	}

	ser.logger.Info("getting the proposals", zap.String("dao", address), zap.String("status", status.String()))

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	list, err := ser.app.ListProposals(ctx, address, status)
	if err != nil {
		ser.appError(w, "getting the proposals failed", err)
		return
	}

	ser.writeJSON(w, http.StatusOK, list)
}

func (ser *server) getProposal(w http.ResponseWriter, r *http.Request) {
	address, err := readDAOAddress(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	proposalID, err := readProposalID(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ser.logger.Info("getting a proposal", zap.String("dao", address), zap.String("proposalID", proposalID))

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	view, err := ser.app.GetProposal(ctx, address, proposalID)
	if err != nil {
		ser.appError(w, "getting the proposal failed", err)
		return
	}

	ser.writeJSON(w, http.StatusOK, view)
}

func (ser *server) postProposeArguments(w http.ResponseWriter, r *http.Request) {
	address, err := readDAOAddress(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	request, err := readProposeRequest(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	args, err := ser.app.BuildProposeArgs(ctx, address, request)
	if err != nil {
		ser.appError(w, "building the propose arguments failed", err)
		return
	}

	ser.writeJSON(w, http.StatusOK, args)
}

func (ser *server) postVoteArguments(w http.ResponseWriter, r *http.Request) {
	address, err := readDAOAddress(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}
	proposalID, err := readProposalID(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var request app.VoteRequest
	if err := readBody(r, &request); err != nil {
		ser.badRequest(w, err.Error())
		return
	}
	if !request.Amount.IsPositive() {
		ser.badRequest(w, "amount must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	args, err := ser.app.BuildVoteArgs(ctx, address, proposalID, request)
	if err != nil {
		ser.appError(w, "building the vote arguments failed", err)
		return
	}

	ser.writeJSON(w, http.StatusOK, args)
}

func (ser *server) postDropArguments(w http.ResponseWriter, r *http.Request) {
	address, err := readDAOAddress(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}
	proposalID, err := readProposalID(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var request app.DropRequest
	if err := readBody(r, &request); err != nil {
		ser.badRequest(w, err.Error())
		return
	}
	request.Caller = normalize(request.Caller)
	if _, err := tezos.ParseAddress(request.Caller); err != nil {
		ser.badRequest(w, fmt.Sprintf("invalid caller %q", request.Caller))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GetRequestTimeout())
	defer cancel()

	args, err := ser.app.BuildDropProposalArgs(ctx, address, proposalID, request)
	if err != nil {
		ser.appError(w, "building the drop proposal arguments failed", err)
		return
	}

	ser.writeJSON(w, http.StatusOK, args)
}

func readProposalID(r *http.Request) (string, error) {
	proposalID := normalize(mux.Vars(r)["proposalID"])
	if proposalID == "" {
		return "", errors.New("proposalID is missing")
	}
	return proposalID, nil
}

func readDAOAddress(r *http.Request) (string, error) {
	address := strings.TrimSpace(mux.Vars(r)["address"])
	if address == "" {
		return "", errors.New("dao address is missing")
	}

	parsed, err := tezos.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("invalid dao address %q: %s", address, err.Error())
	}
	if !parsed.IsContract() {
		return "", fmt.Errorf("dao address %q is not a contract", address)
	}

	return address, nil
}

func readProposeRequest(r *http.Request) (app.ProposeRequest, error) {
	var request app.ProposeRequest
	if err := readBody(r, &request); err != nil {
		return app.ProposeRequest{}, err
	}

	var err error
	if request.FrozenTokens.IsNegative() {
		err = multierr.Append(err, errors.New("frozenTokens must not be negative"))
	}
	if len(request.Transfers) > 0 && len(request.RegistryDiff) > 0 {
		err = multierr.Append(err, errors.New("only one of transfers and registryDiff can be given"))
	}
	for i, transfer := range request.Transfers {
		if _, parseErr := tezos.ParseAddress(transfer.Recipient); parseErr != nil {
			err = multierr.Append(err, fmt.Errorf("transfers[%d]: invalid recipient %q", i, transfer.Recipient))
		}
	}
	if err != nil {
		return app.ProposeRequest{}, err
	}

	return request, nil
}

func readBody(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return errors.New("failed to decode the request body: " + err.Error())
	}
	return nil
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}
