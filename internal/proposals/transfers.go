package proposals

import (
	"dao-explorer/internal/michelson"
	"dao-explorer/internal/model"
	"fmt"

	"github.com/shopspring/decimal"
)

type transferShape int

const (
	shapeUnknown transferShape = iota
	shapeXTZ
	shapeToken
)

func classify(raw michelson.Transfer) transferShape {
	switch {
	case raw.XTZ != nil && raw.Token == nil:
		return shapeXTZ
	case raw.Token != nil && raw.XTZ == nil:
		return shapeToken
	}
	return shapeUnknown
}

// ExtractTransfers maps raw transfer records one to one and in order. For a
// token transfer only the first transaction of the first batch is kept, the
// remaining recipients of a batched FA2 transfer are not surfaced.
func ExtractTransfers(raw []michelson.Transfer) ([]model.Transfer, error) {
	transfers := make([]model.Transfer, len(raw))

	for i, entry := range raw {
		switch classify(entry) {
		case shapeXTZ:
			if !isRawAmount(entry.XTZ.Amount) {
				return nil, fmt.Errorf("transfer %d: amount %s: %w", i, entry.XTZ.Amount, model.ErrUnrecognizedTransferShape)
			}
			transfers[i] = model.NewXTZTransfer(entry.XTZ.Amount, entry.XTZ.Recipient)

		case shapeToken:
			transfer, err := extractTokenTransfer(*entry.Token)
			if err != nil {
				return nil, fmt.Errorf("transfer %d: %w", i, err)
			}
			transfers[i] = transfer

		default:
			return nil, fmt.Errorf("transfer %d: %w", i, model.ErrUnrecognizedTransferShape)
		}
	}

	return transfers, nil
}

func extractTokenTransfer(raw michelson.TokenTransfer) (model.Transfer, error) {
	if len(raw.TransferList) == 0 || len(raw.TransferList[0].Txs) == 0 {
		return model.Transfer{}, fmt.Errorf("token transfer without transactions: %w", model.ErrUnrecognizedTransferShape)
	}

	tx := raw.TransferList[0].Txs[0]
	if !isRawAmount(tx.Amount) {
		return model.Transfer{}, fmt.Errorf("amount %s: %w", tx.Amount, model.ErrUnrecognizedTransferShape)
	}
	tokenID, err := tokenIDFromDecimal(tx.TokenID)
	if err != nil {
		return model.Transfer{}, err
	}

	return model.NewFA2Transfer(tx.Amount, tx.To, raw.ContractAddress, tokenID), nil
}

func tokenIDFromDecimal(d decimal.Decimal) (uint64, error) {
	if d.IsNegative() || !d.IsInteger() || !d.BigInt().IsUint64() {
		return 0, fmt.Errorf("token id %s: %w", d, model.ErrUnrecognizedTransferShape)
	}
	return d.BigInt().Uint64(), nil
}

// isRawAmount reports whether d is a valid amount in the smallest unit.
func isRawAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.IsInteger()
}
