package michelson

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"blockwatch.cc/tzgo/micheline"
	"blockwatch.cc/tzgo/tezos"
	"github.com/shopspring/decimal"
)

// packedPrefix marks data serialized with the PACK instruction.
const packedPrefix byte = 0x05

var ErrNotPacked = errors.New("data is not packed michelson")

// Unpack decodes a hex string of packed Michelson data. A leading 0x is
// accepted.
func Unpack(packed string) (micheline.Prim, error) {
	buf, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(packed), "0x"))
	if err != nil {
		return micheline.Prim{}, errors.New("failed to decode the hex payload: " + err.Error())
	}
	if len(buf) < 2 || buf[0] != packedPrefix {
		return micheline.Prim{}, ErrNotPacked
	}

	var prim micheline.Prim
	if err := prim.UnmarshalBinary(buf[1:]); err != nil {
		return micheline.Prim{}, errors.New("failed to unmarshal the michelson data: " + err.Error())
	}

	return prim, nil
}

func DecodeTreasuryMetadata(packed string) (TreasuryMetadata, error) {
	prim, err := Unpack(packed)
	if err != nil {
		return TreasuryMetadata{}, err
	}

	fields, err := unpair(prim, 2)
	if err != nil {
		return TreasuryMetadata{}, fmt.Errorf("treasury metadata: %w", err)
	}

	agoraPostID, err := decodeNat(fields[0])
	if err != nil {
		return TreasuryMetadata{}, fmt.Errorf("agora_post_id: %w", err)
	}

	items, err := decodeSeq(fields[1])
	if err != nil {
		return TreasuryMetadata{}, fmt.Errorf("transfers: %w", err)
	}

	transfers := make([]Transfer, len(items))
	for i, item := range items {
		if transfers[i], err = decodeTransfer(item); err != nil {
			return TreasuryMetadata{}, fmt.Errorf("transfers[%d]: %w", i, err)
		}
	}

	return TreasuryMetadata{
		AgoraPostID: agoraPostID,
		Transfers:   transfers,
	}, nil
}

func DecodeRegistryMetadata(packed string) (RegistryMetadata, error) {
	prim, err := Unpack(packed)
	if err != nil {
		return RegistryMetadata{}, err
	}

	fields, err := unpair(prim, 2)
	if err != nil {
		return RegistryMetadata{}, fmt.Errorf("registry metadata: %w", err)
	}

	agoraPostID, err := decodeNat(fields[0])
	if err != nil {
		return RegistryMetadata{}, fmt.Errorf("agora_post_id: %w", err)
	}

	items, err := decodeSeq(fields[1])
	if err != nil {
		return RegistryMetadata{}, fmt.Errorf("registry_diff: %w", err)
	}

	diff := make([]RegistryDiff, len(items))
	for i, item := range items {
		kv, err := unpair(item, 2)
		if err != nil {
			return RegistryMetadata{}, fmt.Errorf("registry_diff[%d]: %w", i, err)
		}
		if diff[i].Key, err = decodeString(kv[0]); err != nil {
			return RegistryMetadata{}, fmt.Errorf("registry_diff[%d].key: %w", i, err)
		}
		if diff[i].Value, err = decodeOptionalString(kv[1]); err != nil {
			return RegistryMetadata{}, fmt.Errorf("registry_diff[%d].value: %w", i, err)
		}
	}

	return RegistryMetadata{
		AgoraPostID: agoraPostID,
		Diff:        diff,
	}, nil
}

// decodeTransfer reads one `or` branch. A branch other than Left/Right leaves
// both shapes empty and is rejected by the transfer extractor.
func decodeTransfer(prim micheline.Prim) (Transfer, error) {
	switch prim.OpCode {
	case micheline.D_LEFT:
		if len(prim.Args) != 1 {
			return Transfer{}, errors.New("Left without argument")
		}
		xtz, err := decodeXTZTransfer(prim.Args[0])
		if err != nil {
			return Transfer{}, fmt.Errorf("xtz_transfer_type: %w", err)
		}
		return Transfer{XTZ: &xtz}, nil

	case micheline.D_RIGHT:
		if len(prim.Args) != 1 {
			return Transfer{}, errors.New("Right without argument")
		}
		token, err := decodeTokenTransfer(prim.Args[0])
		if err != nil {
			return Transfer{}, fmt.Errorf("token_transfer_type: %w", err)
		}
		return Transfer{Token: &token}, nil
	}

	return Transfer{}, nil
}

func decodeXTZTransfer(prim micheline.Prim) (XTZTransfer, error) {
	fields, err := unpair(prim, 2)
	if err != nil {
		return XTZTransfer{}, err
	}

	amount, err := decodeNat(fields[0])
	if err != nil {
		return XTZTransfer{}, fmt.Errorf("amount: %w", err)
	}
	recipient, err := decodeAddress(fields[1])
	if err != nil {
		return XTZTransfer{}, fmt.Errorf("recipient: %w", err)
	}

	return XTZTransfer{Amount: amount, Recipient: recipient}, nil
}

func decodeTokenTransfer(prim micheline.Prim) (TokenTransfer, error) {
	fields, err := unpair(prim, 2)
	if err != nil {
		return TokenTransfer{}, err
	}

	contract, err := decodeAddress(fields[0])
	if err != nil {
		return TokenTransfer{}, fmt.Errorf("contract_address: %w", err)
	}

	batches, err := decodeSeq(fields[1])
	if err != nil {
		return TokenTransfer{}, fmt.Errorf("transfer_list: %w", err)
	}

	transfer := TokenTransfer{
		ContractAddress: contract,
		TransferList:    make([]TokenTransferBatch, len(batches)),
	}
	for i, batch := range batches {
		if transfer.TransferList[i], err = decodeTokenBatch(batch); err != nil {
			return TokenTransfer{}, fmt.Errorf("transfer_list[%d]: %w", i, err)
		}
	}

	return transfer, nil
}

func decodeTokenBatch(prim micheline.Prim) (TokenTransferBatch, error) {
	fields, err := unpair(prim, 2)
	if err != nil {
		return TokenTransferBatch{}, err
	}

	from, err := decodeAddress(fields[0])
	if err != nil {
		return TokenTransferBatch{}, fmt.Errorf("from_: %w", err)
	}

	txs, err := decodeSeq(fields[1])
	if err != nil {
		return TokenTransferBatch{}, fmt.Errorf("txs: %w", err)
	}

	batch := TokenTransferBatch{From: from, Txs: make([]TokenTx, len(txs))}
	for i, tx := range txs {
		txFields, err := unpair(tx, 3)
		if err != nil {
			return TokenTransferBatch{}, fmt.Errorf("txs[%d]: %w", i, err)
		}
		if batch.Txs[i].To, err = decodeAddress(txFields[0]); err != nil {
			return TokenTransferBatch{}, fmt.Errorf("txs[%d].to_: %w", i, err)
		}
		if batch.Txs[i].TokenID, err = decodeNat(txFields[1]); err != nil {
			return TokenTransferBatch{}, fmt.Errorf("txs[%d].token_id: %w", i, err)
		}
		if batch.Txs[i].Amount, err = decodeNat(txFields[2]); err != nil {
			return TokenTransferBatch{}, fmt.Errorf("txs[%d].amount: %w", i, err)
		}
	}

	return batch, nil
}

// unpair flattens a right comb of pairs into n values, accepting both the
// nested `Pair a (Pair b c)` and the flat `Pair a b c` notation.
func unpair(prim micheline.Prim, n int) ([]micheline.Prim, error) {
	if prim.OpCode != micheline.D_PAIR || len(prim.Args) < 2 {
		return nil, fmt.Errorf("expected a pair, got %s", prim.OpCode)
	}
	if len(prim.Args) > n {
		return nil, fmt.Errorf("expected a pair of %d values, got %d", n, len(prim.Args))
	}
	if len(prim.Args) == n {
		return prim.Args, nil
	}

	last := len(prim.Args) - 1
	rest, err := unpair(prim.Args[last], n-last)
	if err != nil {
		return nil, err
	}

	values := make([]micheline.Prim, 0, n)
	values = append(values, prim.Args[:last]...)
	return append(values, rest...), nil
}

func decodeSeq(prim micheline.Prim) ([]micheline.Prim, error) {
	if prim.Type != micheline.PrimSequence {
		return nil, errors.New("expected a sequence")
	}
	return prim.Args, nil
}

func decodeNat(prim micheline.Prim) (decimal.Decimal, error) {
	if prim.Type != micheline.PrimInt || prim.Int == nil {
		return decimal.Zero, errors.New("expected an integer")
	}
	if prim.Int.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("expected a natural number, got %s", prim.Int)
	}
	return decimal.NewFromBigInt(prim.Int, 0), nil
}

func decodeString(prim micheline.Prim) (string, error) {
	if prim.Type != micheline.PrimString {
		return "", errors.New("expected a string")
	}
	return prim.String, nil
}

func decodeOptionalString(prim micheline.Prim) (*string, error) {
	switch prim.OpCode {
	case micheline.D_NONE:
		return nil, nil
	case micheline.D_SOME:
		if len(prim.Args) != 1 {
			return nil, errors.New("Some without argument")
		}
		s, err := decodeString(prim.Args[0])
		if err != nil {
			return nil, err
		}
		return &s, nil
	}
	return nil, errors.New("expected an option")
}

// decodeAddress reads an address in either its optimized (bytes) or readable
// (string) form.
func decodeAddress(prim micheline.Prim) (string, error) {
	var (
		addr tezos.Address
		err  error
	)

	switch prim.Type {
	case micheline.PrimBytes:
		err = addr.Decode(prim.Bytes)
	case micheline.PrimString:
		addr, err = tezos.ParseAddress(prim.String)
	default:
		return "", errors.New("expected an address")
	}
	if err != nil {
		return "", fmt.Errorf("invalid address: %w", err)
	}

	return addr.String(), nil
}
