package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Template is the DAO contract flavour a proposal was submitted to.
type Template string

const (
	TemplateTreasury Template = "treasury"
	TemplateRegistry Template = "registry"
)

func (t Template) IsValid() bool {
	return t == TemplateTreasury || t == TemplateRegistry
}

func (t Template) String() string {
	return string(t)
}

// Voter is a single ballot cast on a proposal. The same address may appear
// more than once, every ballot is kept.
type Voter struct {
	Address string          `json:"address"`
	Value   decimal.Decimal `json:"value"`
	Support bool            `json:"support"`
}

// StatusUpdate is a lifecycle event recorded by the indexer, e.g. a drop.
type StatusUpdate struct {
	Status ProposalStatus `json:"status"`
	Level  int64          `json:"level"`
}

// Proposal is built fresh from indexer data and is not modified afterwards.
// Fields shared by every template live here; template specific data is in
// Details.
type Proposal struct {
	ID                   string          `json:"id"`
	Proposer             string          `json:"proposer"`
	ProposerFrozenTokens decimal.Decimal `json:"proposerFrozenTokens"`
	StartDate            time.Time       `json:"startDate"`
	StartLevel           int64           `json:"startLevel"`
	VotingEndLevel       int64           `json:"votingEndLevel"`

	UpVotes         decimal.Decimal `json:"upVotes"`
	DownVotes       decimal.Decimal `json:"downVotes"`
	QuorumThreshold decimal.Decimal `json:"quorumThreshold"`

	// Period is voting_stage_num - 1 and is -1 for stage 0.
	Period int      `json:"period"`
	Type   Template `json:"type"`

	Voters        []Voter        `json:"voters"`
	StatusUpdates []StatusUpdate `json:"statusUpdates,omitempty"`

	Details ProposalDetails `json:"details"`
}

// ProposalDetails is implemented by TreasuryDetails and RegistryDetails.
type ProposalDetails interface {
	Template() Template
}

type TreasuryDetails struct {
	// AgoraPostID is empty when no discussion thread is linked.
	AgoraPostID string     `json:"agoraPostId,omitempty"`
	Transfers   []Transfer `json:"transfers"`
}

func (TreasuryDetails) Template() Template {
	return TemplateTreasury
}

// RegistryItem sets Key to Value; a nil Value removes the key.
type RegistryItem struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

type RegistryDetails struct {
	AgoraPostID string         `json:"agoraPostId,omitempty"`
	Diff        []RegistryItem `json:"diff"`
}

func (RegistryDetails) Template() Template {
	return TemplateRegistry
}

// Treasury returns the treasury details if the proposal carries them.
func (p Proposal) Treasury() (TreasuryDetails, bool) {
	details, ok := p.Details.(TreasuryDetails)
	return details, ok
}

// Registry returns the registry details if the proposal carries them.
func (p Proposal) Registry() (RegistryDetails, bool) {
	details, ok := p.Details.(RegistryDetails)
	return details, ok
}

// AgoraPostID returns the linked discussion thread, if any.
func (p Proposal) AgoraPostID() string {
	switch details := p.Details.(type) {
	case TreasuryDetails:
		return details.AgoraPostID
	case RegistryDetails:
		return details.AgoraPostID
	}
	return ""
}
