package app

import (
	"context"
	"dao-explorer/internal/config"
	"dao-explorer/internal/indexer"
	"dao-explorer/internal/model"
	"dao-explorer/internal/proposals"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownDAO        = errors.New("unknown dao")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrInvalidArguments  = errors.New("invalid proposal arguments")
	ErrMissingDAOAddress = errors.New("missing dao address")
	ErrDropNotAllowed    = errors.New("caller may not drop the proposal")
)

// Indexer is the read side of the chain indexing service.
type Indexer interface {
	Network() string
	GetDAO(ctx context.Context, address string) (model.DAO, error)
	GetProposals(ctx context.Context, address string) ([]indexer.ProposalDTO, error)
	GetCurrentLevel(ctx context.Context) (int64, error)
}

type App struct {
	logger   *zap.Logger
	indexer  Indexer
	registry config.Registry
}

func NewApp(logger *zap.Logger, idx Indexer, registry config.Registry) *App {
	return &App{
		logger:   logger,
		indexer:  idx,
		registry: registry,
	}
}

// ProposalView is a proposal together with its status at the level it was
// evaluated at.
type ProposalView struct {
	model.Proposal
	model.StatusInfo
	VotesQuorumPercentage decimal.Decimal `json:"votesQuorumPercentage"`
}

type FailureView struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// ProposalList holds the proposals matching a status filter. Counts covers
// every mapped proposal of the DAO regardless of the filter.
type ProposalList struct {
	Proposals []ProposalView               `json:"proposals"`
	Failures  []FailureView                `json:"failures"`
	Counts    map[model.ProposalStatus]int `json:"counts"`
	Level     int64                        `json:"level"`
}

// ProposeRequest holds the user input of a new proposal. Transfers are read
// for treasury DAOs and RegistryDiff for registry DAOs.
type ProposeRequest struct {
	AgoraPostID  uint64                     `json:"agoraPostId"`
	FrozenTokens decimal.Decimal            `json:"frozenTokens"`
	Transfers    []proposals.TransferParams `json:"transfers"`
	RegistryDiff []model.RegistryItem       `json:"registryDiff"`
}

// VoteRequest is a vote as entered by a user, Amount is a human readable
// amount of the governance token.
type VoteRequest struct {
	Support bool            `json:"support"`
	Amount  decimal.Decimal `json:"amount"`
}

type DropRequest struct {
	Caller string `json:"caller"`
}

// ListDAOs returns the registered DAOs of the configured network.
func (a *App) ListDAOs() []config.RegistryEntry {
	return a.registry.ForNetwork(a.indexer.Network())
}

// GetDAO fetches a DAO from the indexer. The registry supplies the template
// when the indexer does not report one.
func (a *App) GetDAO(ctx context.Context, address string) (model.DAO, error) {
	if address == "" {
		return model.DAO{}, ErrMissingDAOAddress
	}

	dao, err := a.indexer.GetDAO(ctx, address)
	if errors.Is(err, indexer.ErrNotFound) {
		return model.DAO{}, fmt.Errorf("%w: %s", ErrUnknownDAO, address)
	} else if err != nil {
		return model.DAO{}, err
	}

	if dao.Template == "" {
		if entry, ok := a.registry.Find(address); ok {
			dao.Template = entry.Template
		}
	}
	if !dao.Template.IsValid() {
		return model.DAO{}, fmt.Errorf("dao %s: %w: %q", address, model.ErrUnknownTemplate, dao.Template)
	}

	return dao, nil
}

// ListProposals maps every proposal of the DAO and evaluates it at the
// current chain level. Only proposals in status are returned, an empty status
// matches all of them. Records that fail to map are reported next to the
// proposals instead of failing the request.
func (a *App) ListProposals(ctx context.Context, address string, status model.ProposalStatus) (ProposalList, error) {
	if status != "" && !status.IsValid() {
		return ProposalList{}, fmt.Errorf("%w: unknown status %q", ErrInvalidArguments, status)
	}

	dao, batch, level, err := a.loadProposals(ctx, address)
	if err != nil {
		return ProposalList{}, err
	}

	list := ProposalList{
		Proposals: make([]ProposalView, 0, len(batch.Proposals)),
		Failures:  make([]FailureView, len(batch.Failures)),
		Counts: map[model.ProposalStatus]int{
			model.StatusActive:   0,
			model.StatusPassed:   0,
			model.StatusRejected: 0,
			model.StatusDropped:  0,
		},
		Level: level,
	}

	for _, proposal := range batch.Proposals {
		view := newProposalView(proposal, level)
		list.Counts[view.Status]++
		if status == "" || view.Status == status {
			list.Proposals = append(list.Proposals, view)
		}
	}

	for i, failure := range batch.Failures {
		a.logger.Warn("skipping a proposal: "+failure.Err.Error(), zap.String("dao", dao.Address), zap.String("proposalKey", failure.Key))
		list.Failures[i] = FailureView{Key: failure.Key, Error: failure.Err.Error()}
	}

	a.logger.Debug("listed proposals", zap.String("dao", dao.Address), zap.Int("proposals", len(list.Proposals)), zap.Int("failures", len(list.Failures)), zap.Int64("level", level))

	return list, nil
}

// GetProposal returns a single proposal of the DAO.
func (a *App) GetProposal(ctx context.Context, address, proposalID string) (ProposalView, error) {
	dao, batch, level, err := a.loadProposals(ctx, address)
	if err != nil {
		return ProposalView{}, err
	}

	proposal, err := a.findProposal(dao, batch, proposalID)
	if err != nil {
		return ProposalView{}, err
	}

	return newProposalView(proposal, level), nil
}

// BuildVoteArgs prepares a vote on a proposal that is still open for voting.
func (a *App) BuildVoteArgs(ctx context.Context, address, proposalID string, request VoteRequest) (proposals.VoteArgs, error) {
	dao, batch, level, err := a.loadProposals(ctx, address)
	if err != nil {
		return proposals.VoteArgs{}, err
	}

	proposal, err := a.findProposal(dao, batch, proposalID)
	if err != nil {
		return proposals.VoteArgs{}, err
	}

	if status := proposals.GetStatus(proposal, level).Status; status != model.StatusActive {
		return proposals.VoteArgs{}, fmt.Errorf("%w: proposal %s is %s", ErrInvalidArguments, proposalID, status)
	}

	args, err := proposals.BuildVoteArgs(proposal.ID, request.Support, request.Amount, dao.Token.Decimals)
	if err != nil {
		return proposals.VoteArgs{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	a.logger.Info("built vote arguments", zap.String("dao", dao.Address), zap.String("proposalKey", proposal.ID), zap.Bool("support", request.Support))

	return args, nil
}

// BuildDropProposalArgs prepares the drop of a proposal by request.Caller.
func (a *App) BuildDropProposalArgs(ctx context.Context, address, proposalID string, request DropRequest) (proposals.DropProposalArgs, error) {
	dao, batch, level, err := a.loadProposals(ctx, address)
	if err != nil {
		return proposals.DropProposalArgs{}, err
	}

	proposal, err := a.findProposal(dao, batch, proposalID)
	if err != nil {
		return proposals.DropProposalArgs{}, err
	}

	if !proposals.CanDrop(proposal, level, request.Caller, dao.Guardian) {
		return proposals.DropProposalArgs{}, fmt.Errorf("%w: %s on proposal %s at level %d", ErrDropNotAllowed, request.Caller, proposalID, level)
	}

	args, err := proposals.BuildDropProposalArgs(proposal.ID)
	if err != nil {
		return proposals.DropProposalArgs{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	a.logger.Info("built drop proposal arguments", zap.String("dao", dao.Address), zap.String("proposalKey", proposal.ID), zap.String("caller", request.Caller))

	return args, nil
}

// BuildProposeArgs prepares the propose call of a new proposal on the DAO.
func (a *App) BuildProposeArgs(ctx context.Context, address string, request ProposeRequest) (proposals.ProposeArgs, error) {
	dao, err := a.GetDAO(ctx, address)
	if err != nil {
		return proposals.ProposeArgs{}, err
	}

	var args proposals.ProposeArgs
	switch dao.Template {
	case model.TemplateTreasury:
		if len(request.Transfers) == 0 {
			return proposals.ProposeArgs{}, fmt.Errorf("%w: at least one transfer is required", ErrInvalidArguments)
		}
		args, err = proposals.BuildTreasuryProposeArgs(dao.Address, request.FrozenTokens, request.AgoraPostID, request.Transfers)

	case model.TemplateRegistry:
		if len(request.RegistryDiff) == 0 {
			return proposals.ProposeArgs{}, fmt.Errorf("%w: at least one registry item is required", ErrInvalidArguments)
		}
		args, err = proposals.BuildRegistryProposeArgs(request.FrozenTokens, request.AgoraPostID, request.RegistryDiff)
	}
	if err != nil {
		return proposals.ProposeArgs{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	a.logger.Info("built propose arguments", zap.String("dao", dao.Address), zap.String("template", dao.Template.String()))

	return args, nil
}

func (a *App) loadProposals(ctx context.Context, address string) (model.DAO, proposals.BatchResult, int64, error) {
	dao, err := a.GetDAO(ctx, address)
	if err != nil {
		return model.DAO{}, proposals.BatchResult{}, 0, err
	}

	dtos, err := a.indexer.GetProposals(ctx, dao.Address)
	if err != nil {
		return model.DAO{}, proposals.BatchResult{}, 0, err
	}

	level, err := a.indexer.GetCurrentLevel(ctx)
	if err != nil {
		return model.DAO{}, proposals.BatchResult{}, 0, err
	}

	return dao, proposals.MapBatch(dtos, dao.Template, dao.Governance()), level, nil
}

// findProposal looks proposalID up in batch. A proposal whose record failed to
// map is reported as not found.
func (a *App) findProposal(dao model.DAO, batch proposals.BatchResult, proposalID string) (model.Proposal, error) {
	proposal, ok := batch.Find(proposalID)
	if ok {
		return proposal, nil
	}

	for _, failure := range batch.Failures {
		if failure.Key == proposalID {
			a.logger.Warn("requested proposal failed to map: "+failure.Err.Error(), zap.String("dao", dao.Address), zap.String("proposalKey", failure.Key))
		}
	}
	return model.Proposal{}, fmt.Errorf("%w: %s", ErrProposalNotFound, proposalID)
}

func newProposalView(proposal model.Proposal, level int64) ProposalView {
	return ProposalView{
		Proposal:              proposal,
		StatusInfo:            proposals.GetStatus(proposal, level),
		VotesQuorumPercentage: proposals.VotesQuorumPercentage(proposal.UpVotes, proposal.DownVotes, proposal.QuorumThreshold),
	}
}
