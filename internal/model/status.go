package model

import "strings"

type ProposalStatus string

const (
	StatusActive   ProposalStatus = "active"
	StatusPassed   ProposalStatus = "passed"
	StatusRejected ProposalStatus = "rejected"
	StatusDropped  ProposalStatus = "dropped"
)

// ParseProposalStatus accepts the indexer spelling of a status, which is not
// consistent in case.
func ParseProposalStatus(s string) (ProposalStatus, bool) {
	status := ProposalStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsValid()
}

func (status ProposalStatus) IsValid() bool {
	switch status {
	case StatusActive, StatusPassed, StatusRejected, StatusDropped:
		return true
	}
	return false
}

func (status ProposalStatus) String() string {
	return string(status)
}

// StatusInfo is the lifecycle of a proposal as seen at a given chain level.
type StatusInfo struct {
	Status        ProposalStatus `json:"status"`
	StatusHistory []StatusUpdate `json:"statusHistory"`
}
