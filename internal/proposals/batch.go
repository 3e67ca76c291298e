package proposals

import (
	"dao-explorer/internal/indexer"
	"dao-explorer/internal/model"
	"fmt"

	"go.uber.org/multierr"
)

// Failure is a record that could not be mapped.
type Failure struct {
	Key string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("proposal %s: %v", f.Key, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// BatchResult keeps the input order of the records that mapped successfully.
type BatchResult struct {
	Proposals []model.Proposal
	Failures  []Failure
}

// Err combines every failure of the batch, nil when all records mapped.
func (r BatchResult) Err() error {
	var err error
	for _, failure := range r.Failures {
		err = multierr.Append(err, failure)
	}
	return err
}

// Find returns the mapped proposal with the given id.
func (r BatchResult) Find(id string) (model.Proposal, bool) {
	for _, proposal := range r.Proposals {
		if proposal.ID == id {
			return proposal, true
		}
	}
	return model.Proposal{}, false
}

// MapBatch maps every record on its own; a record that fails is reported in
// Failures and does not prevent the others from being mapped.
func MapBatch(dtos []indexer.ProposalDTO, template model.Template, gov model.Governance) BatchResult {
	result := BatchResult{Proposals: make([]model.Proposal, 0, len(dtos))}

	for _, dto := range dtos {
		proposal, err := MapProposal(dto, template, gov)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Key: dto.Key, Err: err})
			continue
		}
		result.Proposals = append(result.Proposals, proposal)
	}

	return result
}
