package indexer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Numeric fields are decimals because the indexer renders big integers as
// JSON strings and small ones as numbers.

type HolderDTO struct {
	Address string `json:"address"`
}

type VoteDTO struct {
	Holder  HolderDTO       `json:"holder"`
	Amount  decimal.Decimal `json:"amount"`
	Support bool            `json:"support"`
}

type StatusUpdateDTO struct {
	Status string `json:"status"`
	Level  int64  `json:"level"`
}

// ProposalDTO is one entry of the proposals big map of a DAO as returned by
// the indexer. Metadata is the packed Michelson argument of the propose call.
type ProposalDTO struct {
	Key                 string            `json:"key"`
	Holder              HolderDTO         `json:"holder"`
	ProposerFrozenToken decimal.Decimal   `json:"proposer_frozen_token"`
	UpVotes             decimal.Decimal   `json:"upvotes"`
	DownVotes           decimal.Decimal   `json:"downvotes"`
	QuorumThreshold     decimal.Decimal   `json:"quorum_threshold"`
	VotingStageNum      decimal.Decimal   `json:"voting_stage_num"`
	StartDate           time.Time         `json:"start_date"`
	StartLevel          int64             `json:"start_level"`
	Metadata            string            `json:"metadata"`
	Votes               []VoteDTO         `json:"votes"`
	StatusUpdates       []StatusUpdateDTO `json:"status_updates"`
}

// Proposer returns the address of the account that submitted the proposal.
func (p ProposalDTO) Proposer() string {
	return p.Holder.Address
}

// Address returns the voter address.
func (v VoteDTO) Address() string {
	return v.Holder.Address
}

type tokenDTO struct {
	Contract string          `json:"contract"`
	TokenID  decimal.Decimal `json:"token_id"`
	Symbol   string          `json:"symbol"`
	Decimals int32           `json:"decimals"`
	Supply   decimal.Decimal `json:"supply"`
}

type cycleDTO struct {
	StartLevel int64 `json:"start_level"`
	Length     int64 `json:"length"`
}

type daoDTO struct {
	Address  string   `json:"address"`
	Name     string   `json:"name"`
	Template string   `json:"template"`
	Guardian string   `json:"guardian"`
	Token    tokenDTO `json:"token"`
	Cycle    cycleDTO `json:"cycle"`
}

type headDTO struct {
	Level int64 `json:"level"`
}
