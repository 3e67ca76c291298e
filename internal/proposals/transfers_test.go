package proposals

import (
	"dao-explorer/internal/michelson"
	"dao-explorer/internal/model"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractXTZTransfer(t *testing.T) {
	transfers, err := ExtractTransfers([]michelson.Transfer{
		{XTZ: &michelson.XTZTransfer{Amount: decimal.NewFromInt(100), Recipient: "addr1"}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)

	assert.Equal(t, model.TransferTypeXTZ, transfers[0].Type)
	assert.True(t, transfers[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "addr1", transfers[0].Beneficiary)
	assert.Empty(t, transfers[0].ContractAddress)
}

func TestExtractFA2TransferKeepsFirstTransaction(t *testing.T) {
	transfers, err := ExtractTransfers([]michelson.Transfer{
		{Token: &michelson.TokenTransfer{
			ContractAddress: "KT1token",
			TransferList: []michelson.TokenTransferBatch{{
				From: "KT1dao",
				Txs: []michelson.TokenTx{
					{To: "addr1", TokenID: decimal.NewFromInt(3), Amount: decimal.NewFromInt(10)},
					{To: "addr2", TokenID: decimal.NewFromInt(3), Amount: decimal.NewFromInt(20)},
				},
			}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)

	assert.Equal(t, model.NewFA2Transfer(decimal.NewFromInt(10), "addr1", "KT1token", 3), transfers[0])
}

func TestExtractKeepsOrder(t *testing.T) {
	raw := []michelson.Transfer{
		{XTZ: &michelson.XTZTransfer{Amount: decimal.NewFromInt(1), Recipient: "a"}},
		{Token: &michelson.TokenTransfer{
			ContractAddress: "KT1token",
			TransferList: []michelson.TokenTransferBatch{{
				Txs: []michelson.TokenTx{{To: "b", Amount: decimal.NewFromInt(2)}},
			}},
		}},
		{XTZ: &michelson.XTZTransfer{Amount: decimal.NewFromInt(3), Recipient: "c"}},
	}

	transfers, err := ExtractTransfers(raw)
	require.NoError(t, err)
	require.Len(t, transfers, 3)

	assert.Equal(t, []string{"a", "b", "c"}, []string{transfers[0].Beneficiary, transfers[1].Beneficiary, transfers[2].Beneficiary})
	assert.Equal(t, model.TransferTypeFA2, transfers[1].Type)
}

func TestExtractFromIndexerJSON(t *testing.T) {
	payload := `[
		{"xtz_transfer_type": {"amount": "2500000", "recipient": "tz1a"}},
		{"token_transfer_type": {"contract_address": "KT1b", "transfer_list": [{"from_": "KT1dao", "txs": [{"to_": "tz1c", "token_id": 0, "amount": "42"}]}]}}
	]`

	var raw []michelson.Transfer
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	transfers, err := ExtractTransfers(raw)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, model.TransferTypeXTZ, transfers[0].Type)
	assert.Equal(t, "tz1c", transfers[1].Beneficiary)
	assert.Equal(t, "KT1b", transfers[1].ContractAddress)
}

func TestExtractUnrecognizedShapes(t *testing.T) {
	cases := map[string]michelson.Transfer{
		"neither shape": {},
		"both shapes": {
			XTZ:   &michelson.XTZTransfer{Amount: decimal.NewFromInt(1)},
			Token: &michelson.TokenTransfer{},
		},
		"empty transfer list": {Token: &michelson.TokenTransfer{ContractAddress: "KT1"}},
		"empty txs": {Token: &michelson.TokenTransfer{
			TransferList: []michelson.TokenTransferBatch{{From: "KT1dao"}},
		}},
		"negative amount":   {XTZ: &michelson.XTZTransfer{Amount: decimal.NewFromInt(-5)}},
		"fractional amount": {XTZ: &michelson.XTZTransfer{Amount: decimal.RequireFromString("0.5")}},
		"negative token id": {Token: &michelson.TokenTransfer{
			TransferList: []michelson.TokenTransferBatch{{
				Txs: []michelson.TokenTx{{TokenID: decimal.NewFromInt(-1), Amount: decimal.NewFromInt(1)}},
			}},
		}},
	}

	for name, raw := range cases {
		_, err := ExtractTransfers([]michelson.Transfer{raw})
		assert.ErrorIs(t, err, model.ErrUnrecognizedTransferShape, name)
	}
}
