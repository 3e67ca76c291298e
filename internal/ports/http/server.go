package http

import (
	"context"
	"dao-explorer/internal/app"
	"dao-explorer/internal/config"
	"dao-explorer/internal/indexer"
	"dao-explorer/internal/model"
	"dao-explorer/internal/ports/http/middleware/cors"
	"dao-explorer/internal/ports/http/middleware/requestid"
	"dao-explorer/internal/proposals"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Application is the use case layer served over HTTP.
type Application interface {
	ListDAOs() []config.RegistryEntry
	ListProposals(ctx context.Context, address string, status model.ProposalStatus) (app.ProposalList, error)
	GetProposal(ctx context.Context, address, proposalID string) (app.ProposalView, error)
	BuildProposeArgs(ctx context.Context, address string, request app.ProposeRequest) (proposals.ProposeArgs, error)
	BuildVoteArgs(ctx context.Context, address, proposalID string, request app.VoteRequest) (proposals.VoteArgs, error)
	BuildDropProposalArgs(ctx context.Context, address, proposalID string, request app.DropRequest) (proposals.DropProposalArgs, error)
}

type server struct {
	app        Application
	httpServer *http.Server
	addr       string
	logger     *zap.Logger
}

func (ser *server) badRequest(w http.ResponseWriter, message string) {
	ser.writeError(w, http.StatusBadRequest, message)
	ser.logger.Warn(message)
}

func (ser *server) forbidden(w http.ResponseWriter, message string) {
	ser.writeError(w, http.StatusForbidden, message)
	ser.logger.Warn(message)
}

func (ser *server) notFound(w http.ResponseWriter, message string) {
	ser.writeError(w, http.StatusNotFound, message)
	ser.logger.Debug(message)
}

func (ser *server) badGateway(w http.ResponseWriter, message string) {
	ser.writeError(w, http.StatusBadGateway, message)
	ser.logger.Error(message)
}

func (ser *server) serverError(w http.ResponseWriter, message string) {
	ser.writeError(w, http.StatusInternalServerError, message)
	ser.logger.Error(message)
}

func (ser *server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write an error message: " + err.Error())
	}
}

// appError picks the response status matching err.
func (ser *server) appError(w http.ResponseWriter, message string, err error) {
	message = message + ": " + err.Error()

	switch {
	case errors.Is(err, app.ErrUnknownDAO), errors.Is(err, app.ErrProposalNotFound):
		ser.notFound(w, message)
	case errors.Is(err, app.ErrInvalidArguments), errors.Is(err, app.ErrMissingDAOAddress):
		ser.badRequest(w, message)
	case errors.Is(err, app.ErrDropNotAllowed):
		ser.forbidden(w, message)
	case errors.Is(err, indexer.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		ser.badGateway(w, message)
	default:
		ser.serverError(w, message)
	}
}

func (ser *server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	response, err := json.Marshal(body)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}

func (ser *server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/daos", ser.getDAOs).Methods(http.MethodGet)
	api.HandleFunc("/daos/{address}/proposals", ser.getProposals).Methods(http.MethodGet)
	api.HandleFunc("/daos/{address}/proposals/arguments", ser.postProposeArguments).Methods(http.MethodPost)
	api.HandleFunc("/daos/{address}/proposals/{proposalID}", ser.getProposal).Methods(http.MethodGet)
	api.HandleFunc("/daos/{address}/proposals/{proposalID}/vote/arguments", ser.postVoteArguments).Methods(http.MethodPost)
	api.HandleFunc("/daos/{address}/proposals/{proposalID}/drop/arguments", ser.postDropArguments).Methods(http.MethodPost)

}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func NewServer(logger *zap.Logger, a Application, address string) *server {
	ser := &server{
		app:    a,
		addr:   address,
		logger: logger,
	}
	ser.httpServer = &http.Server{
		Handler:           ser.Handler(),
		Addr:              address,
		ReadHeaderTimeout: config.GetRequestTimeout(),
	}

	return ser
}

// Handler returns the router wrapped in the middleware chain.
func (ser *server) Handler() http.Handler {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	return requestid.New(ser.logger).Handler(cors.AddCorsPolicy(router))
}

func (ser *server) Run() error {
	ser.logger.Info("listening on " + ser.addr)
	if err := ser.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ser *server) Shutdown(ctx context.Context) error {
	return ser.httpServer.Shutdown(ctx)
}
