package proposals

import (
	"dao-explorer/internal/indexer"
	"dao-explorer/internal/michelson"
	"dao-explorer/internal/model"
	"dao-explorer/internal/units"
	"fmt"

	"github.com/shopspring/decimal"
)

// quorumScale is the denominator of the parts-per-million quorum threshold.
var quorumScale = decimal.NewFromInt(1000000)

// MapProposal builds a Proposal from an indexer record. It performs no I/O;
// the token supply and cycle values come from the DAO the record belongs to.
func MapProposal(dto indexer.ProposalDTO, template model.Template, gov model.Governance) (model.Proposal, error) {
	if err := gov.Validate(); err != nil {
		return model.Proposal{}, err
	}

	upVotes, err := scaleVotes(dto.UpVotes, gov.TokenDecimals)
	if err != nil {
		return model.Proposal{}, fmt.Errorf("upvotes: %w", err)
	}
	downVotes, err := scaleVotes(dto.DownVotes, gov.TokenDecimals)
	if err != nil {
		return model.Proposal{}, fmt.Errorf("downvotes: %w", err)
	}

	quorumThreshold, err := QuorumThreshold(dto.QuorumThreshold, gov.TokenSupply, gov.TokenDecimals)
	if err != nil {
		return model.Proposal{}, err
	}

	voters := make([]model.Voter, len(dto.Votes))
	for i, vote := range dto.Votes {
		value, err := scaleVotes(vote.Amount, gov.TokenDecimals)
		if err != nil {
			return model.Proposal{}, fmt.Errorf("vote %d of %s: %w", i, vote.Address(), err)
		}
		voters[i] = model.Voter{
			Address: vote.Address(),
			Value:   value,
			Support: vote.Support,
		}
	}

	details, err := mapDetails(dto.Metadata, template)
	if err != nil {
		return model.Proposal{}, err
	}

	period := int(dto.VotingStageNum.IntPart()) - 1

	return model.Proposal{
		ID:                   dto.Key,
		Proposer:             dto.Proposer(),
		ProposerFrozenTokens: dto.ProposerFrozenToken,
		StartDate:            dto.StartDate,
		StartLevel:           dto.StartLevel,
		VotingEndLevel:       votingEndLevel(period, gov),
		UpVotes:              upVotes,
		DownVotes:            downVotes,
		QuorumThreshold:      quorumThreshold,
		Period:               period,
		Type:                 template,
		Voters:               voters,
		StatusUpdates:        mapStatusUpdates(dto.StatusUpdates),
		Details:              details,
	}, nil
}

// QuorumThreshold converts a parts-per-million threshold into vote weight,
// using the same decimal scaling as the vote tallies.
func QuorumThreshold(ppm, tokenSupply decimal.Decimal, decimals int32) (decimal.Decimal, error) {
	if !isRawAmount(tokenSupply) {
		return decimal.Zero, fmt.Errorf("token supply %s: %w", tokenSupply, model.ErrInvalidSupply)
	}
	if ppm.IsNegative() {
		return decimal.Zero, fmt.Errorf("quorum threshold %s: %w", ppm, model.ErrInvalidVotes)
	}

	supply, err := units.FormatUnits(tokenSupply.BigInt(), decimals)
	if err != nil {
		return decimal.Zero, err
	}

	return ppm.Div(quorumScale).Mul(supply), nil
}

func scaleVotes(raw decimal.Decimal, decimals int32) (decimal.Decimal, error) {
	if !isRawAmount(raw) {
		return decimal.Zero, fmt.Errorf("%s: %w", raw, model.ErrInvalidVotes)
	}
	return units.FormatUnits(raw.BigInt(), decimals)
}

// votingEndLevel returns the first level after the voting window. A proposal
// submitted during cycle p is voted on during cycle p+1.
func votingEndLevel(period int, gov model.Governance) int64 {
	return gov.CycleStartLevel + int64(period+2)*gov.CycleLength
}

func mapStatusUpdates(dtos []indexer.StatusUpdateDTO) []model.StatusUpdate {
	var updates []model.StatusUpdate
	for _, dto := range dtos {
		status, ok := model.ParseProposalStatus(dto.Status)
		if !ok {
			continue
		}
		updates = append(updates, model.StatusUpdate{Status: status, Level: dto.Level})
	}
	return updates
}

func mapDetails(metadata string, template model.Template) (model.ProposalDetails, error) {
	switch template {
	case model.TemplateTreasury:
		decoded, err := michelson.DecodeTreasuryMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrMalformedMetadata, err.Error())
		}
		transfers, err := ExtractTransfers(decoded.Transfers)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrMalformedMetadata, err)
		}
		return model.TreasuryDetails{
			AgoraPostID: agoraPostID(decoded.AgoraPostID),
			Transfers:   transfers,
		}, nil

	case model.TemplateRegistry:
		decoded, err := michelson.DecodeRegistryMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrMalformedMetadata, err.Error())
		}
		diff := make([]model.RegistryItem, len(decoded.Diff))
		for i, item := range decoded.Diff {
			diff[i] = model.RegistryItem{Key: item.Key, Value: item.Value}
		}
		return model.RegistryDetails{
			AgoraPostID: agoraPostID(decoded.AgoraPostID),
			Diff:        diff,
		}, nil
	}

	return nil, fmt.Errorf("template %q: %w", template, model.ErrUnknownTemplate)
}

// agoraPostID returns an empty string for post 0, which Agora never assigns.
func agoraPostID(id decimal.Decimal) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}
