package michelson

import (
	"math/big"
	"testing"

	"blockwatch.cc/tzgo/micheline"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb"
	bob   = "tz1aSkwEot3L2kmUvcoxzjMomb9mvBNuzFK6"
	tzBTC = "KT1PWx2mnDueood7fEmfbBDKx1D9BAnnXitn"
	dao   = "KT1K9gCRgaLRFKTErYt1wVxA3Frb9FjasjTV"
)

func TestTreasuryMetadataRoundTrip(t *testing.T) {
	metadata := TreasuryMetadata{
		AgoraPostID: decimal.NewFromInt(42),
		Transfers: []Transfer{
			{XTZ: &XTZTransfer{Amount: decimal.NewFromInt(1500000), Recipient: alice}},
			{Token: &TokenTransfer{
				ContractAddress: tzBTC,
				TransferList: []TokenTransferBatch{{
					From: dao,
					Txs: []TokenTx{
						{To: bob, TokenID: decimal.NewFromInt(0), Amount: decimal.NewFromInt(100)},
						{To: alice, TokenID: decimal.NewFromInt(0), Amount: decimal.NewFromInt(7)},
					},
				}},
			}},
		},
	}

	packed, err := EncodeTreasuryMetadata(metadata)
	require.NoError(t, err)
	assert.Equal(t, "05", packed[:2])

	decoded, err := DecodeTreasuryMetadata(packed)
	require.NoError(t, err)

	assert.True(t, decoded.AgoraPostID.Equal(decimal.NewFromInt(42)))
	require.Len(t, decoded.Transfers, 2)

	xtz := decoded.Transfers[0]
	require.NotNil(t, xtz.XTZ)
	assert.Nil(t, xtz.Token)
	assert.Equal(t, alice, xtz.XTZ.Recipient)
	assert.True(t, xtz.XTZ.Amount.Equal(decimal.NewFromInt(1500000)))

	token := decoded.Transfers[1]
	require.NotNil(t, token.Token)
	assert.Nil(t, token.XTZ)
	assert.Equal(t, tzBTC, token.Token.ContractAddress)
	require.Len(t, token.Token.TransferList, 1)
	assert.Equal(t, dao, token.Token.TransferList[0].From)
	require.Len(t, token.Token.TransferList[0].Txs, 2)
	assert.Equal(t, bob, token.Token.TransferList[0].Txs[0].To)
	assert.True(t, token.Token.TransferList[0].Txs[0].Amount.Equal(decimal.NewFromInt(100)))
}

// packedTreasuryMetadata holds an XTZ transfer to alice and a token transfer
// from dao to bob, with every address in its 22 byte optimized form:
//
//	Pair 5 { Left (Pair 1000000 alice) ;
//	         Right (Pair tzBTC { Pair dao { Pair bob (Pair 0 42) } }) }
const packedTreasuryMetadata = "0507070005020000008c050507070080897a0a0000001600006b82198cb179e8306c1bedd08f" +
	"12dc863f328886050807070a0000001601a3d0f58d8964bd1b37fb0a0c197b38cf46608d4900" +
	"020000004507070a000000160173ea80f05be778be227cd8e986f714f279bde0420002000000" +
	"2307070a000000160000a26828841890d3f3a2a1d4083839c7a882fe050107070000002a"

func TestDecodeOptimizedAddresses(t *testing.T) {
	decoded, err := DecodeTreasuryMetadata(packedTreasuryMetadata)
	require.NoError(t, err)

	assert.True(t, decoded.AgoraPostID.Equal(decimal.NewFromInt(5)))
	require.Len(t, decoded.Transfers, 2)

	require.NotNil(t, decoded.Transfers[0].XTZ)
	assert.Equal(t, alice, decoded.Transfers[0].XTZ.Recipient)
	assert.True(t, decoded.Transfers[0].XTZ.Amount.Equal(decimal.NewFromInt(1000000)))

	token := decoded.Transfers[1].Token
	require.NotNil(t, token)
	assert.Equal(t, tzBTC, token.ContractAddress)
	require.Len(t, token.TransferList, 1)
	assert.Equal(t, dao, token.TransferList[0].From)
	require.Len(t, token.TransferList[0].Txs, 1)
	assert.Equal(t, bob, token.TransferList[0].Txs[0].To)
	assert.True(t, token.TransferList[0].Txs[0].TokenID.IsZero())
	assert.True(t, token.TransferList[0].Txs[0].Amount.Equal(decimal.NewFromInt(42)))

	reencoded, err := EncodeTreasuryMetadata(decoded)
	require.NoError(t, err)
	assert.Equal(t, packedTreasuryMetadata, reencoded)
}

func TestRegistryMetadataRoundTrip(t *testing.T) {
	value := "https://example.org"
	metadata := RegistryMetadata{
		AgoraPostID: decimal.NewFromInt(7),
		Diff: []RegistryDiff{
			{Key: "website", Value: &value},
			{Key: "obsolete"},
		},
	}

	packed, err := EncodeRegistryMetadata(metadata)
	require.NoError(t, err)

	decoded, err := DecodeRegistryMetadata(packed)
	require.NoError(t, err)

	assert.True(t, decoded.AgoraPostID.Equal(decimal.NewFromInt(7)))
	require.Len(t, decoded.Diff, 2)
	assert.Equal(t, "website", decoded.Diff[0].Key)
	require.NotNil(t, decoded.Diff[0].Value)
	assert.Equal(t, value, *decoded.Diff[0].Value)
	assert.Equal(t, "obsolete", decoded.Diff[1].Key)
	assert.Nil(t, decoded.Diff[1].Value)
}

func TestDecodeFlatCombPair(t *testing.T) {
	tx := micheline.NewCode(micheline.D_PAIR,
		micheline.NewString(bob),
		micheline.NewNat(big.NewInt(3)),
		micheline.NewNat(big.NewInt(9)),
	)
	token := micheline.NewCode(micheline.D_RIGHT, micheline.NewPair(
		micheline.NewString(tzBTC),
		micheline.NewSeq(micheline.NewPair(micheline.NewString(dao), micheline.NewSeq(tx))),
	))

	packed, err := Pack(micheline.NewPair(micheline.NewNat(big.NewInt(1)), micheline.NewSeq(token)))
	require.NoError(t, err)

	decoded, err := DecodeTreasuryMetadata(packed)
	require.NoError(t, err)
	require.Len(t, decoded.Transfers, 1)
	require.NotNil(t, decoded.Transfers[0].Token)

	first := decoded.Transfers[0].Token.TransferList[0].Txs[0]
	assert.Equal(t, bob, first.To)
	assert.True(t, first.TokenID.Equal(decimal.NewFromInt(3)))
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(9)))
}

func TestDecodeUnknownBranchLeavesTransferEmpty(t *testing.T) {
	packed, err := Pack(micheline.NewPair(
		micheline.NewNat(big.NewInt(1)),
		micheline.NewSeq(micheline.NewNat(big.NewInt(5))),
	))
	require.NoError(t, err)

	decoded, err := DecodeTreasuryMetadata(packed)
	require.NoError(t, err)
	require.Len(t, decoded.Transfers, 1)
	assert.Nil(t, decoded.Transfers[0].XTZ)
	assert.Nil(t, decoded.Transfers[0].Token)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"not hex":       "zz",
		"not packed":    "0700",
		"empty":         "",
		"wrong shape":   mustPack(t, micheline.NewString("hello")),
		"negative post": mustPack(t, micheline.NewPair(micheline.NewInt64(-1), micheline.NewSeq())),
	}

	for name, packed := range cases {
		_, err := DecodeTreasuryMetadata(packed)
		assert.Error(t, err, name)
	}
}

func TestEncodeRejectsInvalidInput(t *testing.T) {
	_, err := EncodeTreasuryMetadata(TreasuryMetadata{
		AgoraPostID: decimal.NewFromInt(1),
		Transfers:   []Transfer{{XTZ: &XTZTransfer{Amount: decimal.NewFromInt(1), Recipient: "nope"}}},
	})
	assert.Error(t, err)

	_, err = EncodeTreasuryMetadata(TreasuryMetadata{
		AgoraPostID: decimal.RequireFromString("1.5"),
	})
	assert.Error(t, err)

	_, err = EncodeTreasuryMetadata(TreasuryMetadata{
		AgoraPostID: decimal.NewFromInt(1),
		Transfers:   []Transfer{{}},
	})
	assert.Error(t, err)
}

func mustPack(t *testing.T, prim micheline.Prim) string {
	packed, err := Pack(prim)
	require.NoError(t, err)
	return packed
}
