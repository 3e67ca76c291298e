package model

import "github.com/shopspring/decimal"

type TransferType string

const (
	TransferTypeXTZ TransferType = "XTZ"
	TransferTypeFA2 TransferType = "FA2"
)

// Transfer is a treasury payout requested by a proposal. Amount is in the
// smallest unit of the asset (mutez for XTZ). ContractAddress and TokenID are
// only set for FA2 transfers.
type Transfer struct {
	Type            TransferType    `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Beneficiary     string          `json:"beneficiary"`
	ContractAddress string          `json:"contractAddress,omitempty"`
	TokenID         uint64          `json:"tokenId,omitempty"`
}

func NewXTZTransfer(amount decimal.Decimal, beneficiary string) Transfer {
	return Transfer{
		Type:        TransferTypeXTZ,
		Amount:      amount,
		Beneficiary: beneficiary,
	}
}

func NewFA2Transfer(amount decimal.Decimal, beneficiary, contract string, tokenID uint64) Transfer {
	return Transfer{
		Type:            TransferTypeFA2,
		Amount:          amount,
		Beneficiary:     beneficiary,
		ContractAddress: contract,
		TokenID:         tokenID,
	}
}
