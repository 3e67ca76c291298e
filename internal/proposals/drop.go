package proposals

import "dao-explorer/internal/model"

// CanDrop reports whether caller may drop p at currentLevel. The DAO guardian
// and the proposer may drop a proposal at any time; anyone else only once it
// has expired, that is once its voting period is over. A dropped proposal
// cannot be dropped again.
func CanDrop(p model.Proposal, currentLevel int64, caller, guardian string) bool {
	if caller == "" {
		return false
	}
	if _, dropped := droppedAt(p, currentLevel); dropped {
		return false
	}
	if caller == p.Proposer || caller == guardian {
		return true
	}
	return currentLevel >= p.VotingEndLevel
}
