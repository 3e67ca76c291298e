package proposals

import (
	"dao-explorer/internal/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusProposal(up, down, quorum int64) model.Proposal {
	return model.Proposal{
		ID:              "p1",
		StartLevel:      142,
		VotingEndLevel:  160,
		UpVotes:         decimal.NewFromInt(up),
		DownVotes:       decimal.NewFromInt(down),
		QuorumThreshold: decimal.NewFromInt(quorum),
	}
}

func TestGetStatusActiveUntilVotingEnds(t *testing.T) {
	proposal := statusProposal(600, 100, 500)

	info := GetStatus(proposal, 159)
	assert.Equal(t, model.StatusActive, info.Status)
	assert.Equal(t, []model.StatusUpdate{{Status: model.StatusActive, Level: 142}}, info.StatusHistory)

	info = GetStatus(proposal, 160)
	assert.Equal(t, model.StatusPassed, info.Status)
	assert.Equal(t, []model.StatusUpdate{
		{Status: model.StatusActive, Level: 142},
		{Status: model.StatusPassed, Level: 160},
	}, info.StatusHistory)
}

func TestGetStatusRejected(t *testing.T) {
	cases := map[string]model.Proposal{
		"below quorum":     statusProposal(400, 0, 500),
		"majority against": statusProposal(600, 700, 500),
		"tie":              statusProposal(600, 600, 500),
	}

	for name, proposal := range cases {
		info := GetStatus(proposal, 1000)
		assert.Equal(t, model.StatusRejected, info.Status, name)
		require.Len(t, info.StatusHistory, 2, name)
		assert.Equal(t, int64(160), info.StatusHistory[1].Level, name)
	}
}

func TestGetStatusDropped(t *testing.T) {
	proposal := statusProposal(600, 100, 500)
	proposal.StatusUpdates = []model.StatusUpdate{{Status: model.StatusDropped, Level: 150}}

	for _, level := range []int64{151, 1000} {
		info := GetStatus(proposal, level)
		assert.Equal(t, model.StatusDropped, info.Status)
		assert.Equal(t, []model.StatusUpdate{
			{Status: model.StatusActive, Level: 142},
			{Status: model.StatusDropped, Level: 150},
		}, info.StatusHistory)
	}
}

func TestGetStatusIgnoresLaterDrop(t *testing.T) {
	proposal := statusProposal(600, 100, 500)
	proposal.StatusUpdates = []model.StatusUpdate{{Status: model.StatusDropped, Level: 180}}

	info := GetStatus(proposal, 150)
	assert.Equal(t, model.StatusActive, info.Status)
	assert.Equal(t, []model.StatusUpdate{{Status: model.StatusActive, Level: 142}}, info.StatusHistory)

	info = GetStatus(proposal, 170)
	assert.Equal(t, model.StatusPassed, info.Status)

	info = GetStatus(proposal, 180)
	assert.Equal(t, model.StatusDropped, info.Status)
	assert.Equal(t, model.StatusUpdate{Status: model.StatusDropped, Level: 180}, info.StatusHistory[1])
}

func TestIsPassing(t *testing.T) {
	assert.True(t, IsPassing(decimal.NewFromInt(500), decimal.NewFromInt(10), decimal.NewFromInt(500)))
	assert.False(t, IsPassing(decimal.NewFromInt(499), decimal.NewFromInt(10), decimal.NewFromInt(500)))
	assert.True(t, IsPassing(decimal.NewFromInt(1), decimal.Zero, decimal.Zero))
}

func TestVotesQuorumPercentage(t *testing.T) {
	percentage := VotesQuorumPercentage(decimal.NewFromInt(30), decimal.NewFromInt(10), decimal.NewFromInt(100))
	assert.True(t, percentage.Equal(decimal.NewFromInt(30)), percentage.String())

	percentage = VotesQuorumPercentage(decimal.NewFromInt(10), decimal.NewFromInt(45), decimal.NewFromInt(30))
	assert.True(t, percentage.Equal(decimal.NewFromInt(150)), percentage.String())

	percentage = VotesQuorumPercentage(decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.Zero)
	assert.True(t, percentage.IsZero())
}

func TestCanDrop(t *testing.T) {
	const guardian = "tz1guardian"

	proposal := statusProposal(600, 100, 500)
	proposal.Proposer = alice

	assert.True(t, CanDrop(proposal, 150, alice, guardian))
	assert.True(t, CanDrop(proposal, 150, guardian, guardian))
	assert.False(t, CanDrop(proposal, 150, bob, guardian))
	assert.False(t, CanDrop(proposal, 159, bob, guardian))
	assert.True(t, CanDrop(proposal, 160, bob, guardian))
	assert.False(t, CanDrop(proposal, 150, "", ""))

	proposal.StatusUpdates = []model.StatusUpdate{{Status: model.StatusDropped, Level: 155}}
	assert.True(t, CanDrop(proposal, 150, alice, guardian))
	assert.False(t, CanDrop(proposal, 155, alice, guardian))
	assert.False(t, CanDrop(proposal, 200, bob, guardian))
}
