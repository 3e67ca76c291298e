package proposals

import (
	"dao-explorer/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GetStatus evaluates the lifecycle of p at currentLevel. A drop recorded by
// the indexer at or before currentLevel wins over everything else; otherwise the proposal stays active
// until currentLevel reaches its voting end level and is then decided by the
// tallies.
func GetStatus(p model.Proposal, currentLevel int64) model.StatusInfo {
	history := []model.StatusUpdate{{Status: model.StatusActive, Level: p.StartLevel}}

	if dropped, ok := droppedAt(p, currentLevel); ok {
		return model.StatusInfo{
			Status:        model.StatusDropped,
			StatusHistory: append(history, dropped),
		}
	}

	if currentLevel < p.VotingEndLevel {
		return model.StatusInfo{Status: model.StatusActive, StatusHistory: history}
	}

	outcome := model.StatusRejected
	if IsPassing(p.UpVotes, p.DownVotes, p.QuorumThreshold) {
		outcome = model.StatusPassed
	}

	return model.StatusInfo{
		Status:        outcome,
		StatusHistory: append(history, model.StatusUpdate{Status: outcome, Level: p.VotingEndLevel}),
	}
}

// IsPassing reports whether the tallies reach the quorum with a majority in
// favour.
func IsPassing(upVotes, downVotes, quorumThreshold decimal.Decimal) bool {
	return upVotes.GreaterThanOrEqual(quorumThreshold) && upVotes.GreaterThan(downVotes)
}

// VotesQuorumPercentage is the larger tally as a percentage of the quorum
// threshold. It can exceed 100 and is 0 when the threshold is 0.
func VotesQuorumPercentage(upVotes, downVotes, quorumThreshold decimal.Decimal) decimal.Decimal {
	if quorumThreshold.IsZero() {
		return decimal.Zero
	}
	return decimal.Max(upVotes, downVotes).Div(quorumThreshold).Mul(hundred)
}

// droppedAt returns the drop recorded at or before currentLevel, if any.
func droppedAt(p model.Proposal, currentLevel int64) (model.StatusUpdate, bool) {
	for _, update := range p.StatusUpdates {
		if update.Status == model.StatusDropped && update.Level <= currentLevel {
			return update, true
		}
	}
	return model.StatusUpdate{}, false
}
