package michelson

import (
	"encoding/hex"
	"errors"
	"fmt"

	"blockwatch.cc/tzgo/micheline"
	"blockwatch.cc/tzgo/tezos"
	"github.com/shopspring/decimal"
)

// Pack serializes a value the way the PACK instruction does and returns it
// hex encoded.
func Pack(prim micheline.Prim) (string, error) {
	buf, err := prim.MarshalBinary()
	if err != nil {
		return "", errors.New("failed to marshal the michelson data: " + err.Error())
	}

	return hex.EncodeToString(append([]byte{packedPrefix}, buf...)), nil
}

func EncodeTreasuryMetadata(metadata TreasuryMetadata) (string, error) {
	agoraPostID, err := encodeNat(metadata.AgoraPostID)
	if err != nil {
		return "", fmt.Errorf("agora_post_id: %w", err)
	}

	transfers := make([]micheline.Prim, len(metadata.Transfers))
	for i, transfer := range metadata.Transfers {
		if transfers[i], err = encodeTransfer(transfer); err != nil {
			return "", fmt.Errorf("transfers[%d]: %w", i, err)
		}
	}

	return Pack(micheline.NewPair(agoraPostID, micheline.NewSeq(transfers...)))
}

func EncodeRegistryMetadata(metadata RegistryMetadata) (string, error) {
	agoraPostID, err := encodeNat(metadata.AgoraPostID)
	if err != nil {
		return "", fmt.Errorf("agora_post_id: %w", err)
	}

	diff := make([]micheline.Prim, len(metadata.Diff))
	for i, item := range metadata.Diff {
		value := micheline.NewCode(micheline.D_NONE)
		if item.Value != nil {
			value = micheline.NewCode(micheline.D_SOME, micheline.NewString(*item.Value))
		}
		diff[i] = micheline.NewPair(micheline.NewString(item.Key), value)
	}

	return Pack(micheline.NewPair(agoraPostID, micheline.NewSeq(diff...)))
}

func encodeTransfer(transfer Transfer) (micheline.Prim, error) {
	switch {
	case transfer.XTZ != nil && transfer.Token == nil:
		amount, err := encodeNat(transfer.XTZ.Amount)
		if err != nil {
			return micheline.Prim{}, fmt.Errorf("amount: %w", err)
		}
		recipient, err := encodeAddress(transfer.XTZ.Recipient)
		if err != nil {
			return micheline.Prim{}, fmt.Errorf("recipient: %w", err)
		}
		return micheline.NewCode(micheline.D_LEFT, micheline.NewPair(amount, recipient)), nil

	case transfer.Token != nil && transfer.XTZ == nil:
		contract, err := encodeAddress(transfer.Token.ContractAddress)
		if err != nil {
			return micheline.Prim{}, fmt.Errorf("contract_address: %w", err)
		}
		batches := make([]micheline.Prim, len(transfer.Token.TransferList))
		for i, batch := range transfer.Token.TransferList {
			if batches[i], err = encodeTokenBatch(batch); err != nil {
				return micheline.Prim{}, fmt.Errorf("transfer_list[%d]: %w", i, err)
			}
		}
		return micheline.NewCode(micheline.D_RIGHT, micheline.NewPair(contract, micheline.NewSeq(batches...))), nil
	}

	return micheline.Prim{}, errors.New("transfer must hold exactly one of xtz_transfer_type and token_transfer_type")
}

func encodeTokenBatch(batch TokenTransferBatch) (micheline.Prim, error) {
	from, err := encodeAddress(batch.From)
	if err != nil {
		return micheline.Prim{}, fmt.Errorf("from_: %w", err)
	}

	txs := make([]micheline.Prim, len(batch.Txs))
	for i, tx := range batch.Txs {
		to, err := encodeAddress(tx.To)
		if err != nil {
			return micheline.Prim{}, fmt.Errorf("txs[%d].to_: %w", i, err)
		}
		tokenID, err := encodeNat(tx.TokenID)
		if err != nil {
			return micheline.Prim{}, fmt.Errorf("txs[%d].token_id: %w", i, err)
		}
		amount, err := encodeNat(tx.Amount)
		if err != nil {
			return micheline.Prim{}, fmt.Errorf("txs[%d].amount: %w", i, err)
		}
		txs[i] = micheline.NewPair(to, micheline.NewPair(tokenID, amount))
	}

	return micheline.NewPair(from, micheline.NewSeq(txs...)), nil
}

func encodeNat(value decimal.Decimal) (micheline.Prim, error) {
	if value.IsNegative() || !value.IsInteger() {
		return micheline.Prim{}, fmt.Errorf("expected a natural number, got %s", value)
	}
	return micheline.NewNat(value.BigInt()), nil
}

func encodeAddress(address string) (micheline.Prim, error) {
	addr, err := tezos.ParseAddress(address)
	if err != nil {
		return micheline.Prim{}, fmt.Errorf("invalid address %q: %w", address, err)
	}
	return micheline.NewBytes(addr.EncodePadded()), nil
}
