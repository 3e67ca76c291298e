package proposals

import (
	"dao-explorer/internal/michelson"
	"dao-explorer/internal/model"
	"dao-explorer/internal/units"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// DAO contract entrypoints the arguments are built for.
const (
	ProposeEntrypoint      = "propose"
	VoteEntrypoint         = "vote"
	DropProposalEntrypoint = "drop_proposal"
)

var ErrZeroAmount = errors.New("amount is zero in the smallest unit")

// Asset describes the FA2 token moved by a transfer.
type Asset struct {
	Contract string `json:"contract"`
	TokenID  uint64 `json:"tokenId"`
	Decimals int32  `json:"decimals"`
}

// TransferParams is a transfer as entered by a user, Amount is a human
// readable decimal amount.
type TransferParams struct {
	Type      model.TransferType `json:"type"`
	Amount    decimal.Decimal    `json:"amount"`
	Recipient string             `json:"recipient"`
	Asset     Asset              `json:"asset"`
}

func (t TransferParams) Validate() error {
	var err error
	if t.Recipient == "" {
		err = multierr.Append(err, errors.New("recipient is missing"))
	}
	if !t.Amount.IsPositive() {
		err = multierr.Append(err, fmt.Errorf("amount must be positive, got %s", t.Amount))
	}

	switch t.Type {
	case model.TransferTypeXTZ:
	case model.TransferTypeFA2:
		if t.Asset.Contract == "" {
			err = multierr.Append(err, errors.New("asset contract is missing"))
		}
		if t.Asset.Decimals < 0 {
			err = multierr.Append(err, fmt.Errorf("asset decimals %d: %w", t.Asset.Decimals, model.ErrInvalidDecimals))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown transfer type %q", t.Type))
	}

	return err
}

// ProposeArgs are the parameters of a propose call: the frozen stake and the
// packed proposal metadata in hex.
type ProposeArgs struct {
	Entrypoint   string          `json:"entrypoint"`
	FrozenTokens decimal.Decimal `json:"frozenTokens"`
	Metadata     string          `json:"metadata"`
}

// XTZTransferArgs converts a native transfer into its contract shape. An
// amount below one mutez is rejected.
func XTZTransferArgs(transfer TransferParams) (michelson.Transfer, error) {
	mutez := units.XTZToMutez(transfer.Amount)
	if mutez.Sign() <= 0 {
		return michelson.Transfer{}, fmt.Errorf("amount %s tez: %w", transfer.Amount, ErrZeroAmount)
	}

	return michelson.Transfer{
		XTZ: &michelson.XTZTransfer{
			Amount:    decimal.NewFromBigInt(mutez, 0),
			Recipient: transfer.Recipient,
		},
	}, nil
}

// FA2TransferArgs converts a token transfer into its contract shape, sent from
// the DAO treasury.
func FA2TransferArgs(transfer TransferParams, daoAddress string) (michelson.Transfer, error) {
	amount, err := units.ParseUnits(transfer.Amount, transfer.Asset.Decimals)
	if err != nil {
		return michelson.Transfer{}, err
	}
	if amount.Sign() <= 0 {
		return michelson.Transfer{}, fmt.Errorf("amount %s with %d decimals: %w", transfer.Amount, transfer.Asset.Decimals, ErrZeroAmount)
	}

	return michelson.Transfer{
		Token: &michelson.TokenTransfer{
			ContractAddress: transfer.Asset.Contract,
			TransferList: []michelson.TokenTransferBatch{{
				From: daoAddress,
				Txs: []michelson.TokenTx{{
					To:      transfer.Recipient,
					TokenID: fromUint64(transfer.Asset.TokenID),
					Amount:  decimal.NewFromBigInt(amount, 0),
				}},
			}},
		},
	}, nil
}

func TransfersArgs(transfers []TransferParams, daoAddress string) ([]michelson.Transfer, error) {
	args := make([]michelson.Transfer, len(transfers))

	for i, transfer := range transfers {
		if err := transfer.Validate(); err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}

		var err error
		if transfer.Type == model.TransferTypeFA2 {
			args[i], err = FA2TransferArgs(transfer, daoAddress)
		} else {
			args[i], err = XTZTransferArgs(transfer)
		}
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}
	}

	return args, nil
}

// BuildTreasuryProposeArgs builds the arguments of a treasury DAO proposal.
func BuildTreasuryProposeArgs(daoAddress string, frozenTokens decimal.Decimal, agoraPostID uint64, transfers []TransferParams) (ProposeArgs, error) {
	args, err := TransfersArgs(transfers, daoAddress)
	if err != nil {
		return ProposeArgs{}, err
	}

	metadata, err := michelson.EncodeTreasuryMetadata(michelson.TreasuryMetadata{
		AgoraPostID: fromUint64(agoraPostID),
		Transfers:   args,
	})
	if err != nil {
		return ProposeArgs{}, err
	}

	return newProposeArgs(frozenTokens, metadata)
}

// BuildRegistryProposeArgs builds the arguments of a registry DAO proposal.
func BuildRegistryProposeArgs(frozenTokens decimal.Decimal, agoraPostID uint64, diff []model.RegistryItem) (ProposeArgs, error) {
	items := make([]michelson.RegistryDiff, len(diff))
	for i, item := range diff {
		if item.Key == "" {
			return ProposeArgs{}, fmt.Errorf("registry item %d: key is missing", i)
		}
		items[i] = michelson.RegistryDiff{Key: item.Key, Value: item.Value}
	}

	metadata, err := michelson.EncodeRegistryMetadata(michelson.RegistryMetadata{
		AgoraPostID: fromUint64(agoraPostID),
		Diff:        items,
	})
	if err != nil {
		return ProposeArgs{}, err
	}

	return newProposeArgs(frozenTokens, metadata)
}

// VoteArgs are the parameters of a single vote: the proposal key as hex bytes,
// the side and the staked amount in the smallest unit of the governance token.
type VoteArgs struct {
	Entrypoint  string          `json:"entrypoint"`
	ProposalKey string          `json:"proposalKey"`
	Support     bool            `json:"support"`
	Amount      decimal.Decimal `json:"amount"`
}

// BuildVoteArgs builds a vote on proposalKey. Amount is a human readable
// amount of the governance token, which has the given decimals.
func BuildVoteArgs(proposalKey string, support bool, amount decimal.Decimal, decimals int32) (VoteArgs, error) {
	key, err := parseProposalKey(proposalKey)
	if err != nil {
		return VoteArgs{}, err
	}
	if !amount.IsPositive() {
		return VoteArgs{}, fmt.Errorf("vote amount must be positive, got %s", amount)
	}

	raw, err := units.ParseUnits(amount, decimals)
	if err != nil {
		return VoteArgs{}, err
	}
	if raw.Sign() <= 0 {
		return VoteArgs{}, fmt.Errorf("vote amount %s with %d decimals: %w", amount, decimals, ErrZeroAmount)
	}

	return VoteArgs{
		Entrypoint:  VoteEntrypoint,
		ProposalKey: key,
		Support:     support,
		Amount:      decimal.NewFromBigInt(raw, 0),
	}, nil
}

type DropProposalArgs struct {
	Entrypoint  string `json:"entrypoint"`
	ProposalKey string `json:"proposalKey"`
}

func BuildDropProposalArgs(proposalKey string) (DropProposalArgs, error) {
	key, err := parseProposalKey(proposalKey)
	if err != nil {
		return DropProposalArgs{}, err
	}

	return DropProposalArgs{
		Entrypoint:  DropProposalEntrypoint,
		ProposalKey: key,
	}, nil
}

// parseProposalKey checks that key is a non empty hex byte string and returns
// it lower cased without a 0x prefix.
func parseProposalKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(key), "0x"))
	if key == "" {
		return "", errors.New("proposal key is missing")
	}
	if _, err := hex.DecodeString(key); err != nil {
		return "", fmt.Errorf("proposal key %q is not hex: %s", key, err.Error())
	}
	return key, nil
}

func newProposeArgs(frozenTokens decimal.Decimal, metadata string) (ProposeArgs, error) {
	if frozenTokens.IsNegative() || !frozenTokens.IsInteger() {
		return ProposeArgs{}, fmt.Errorf("frozen tokens must be a non negative integer, got %s", frozenTokens)
	}

	return ProposeArgs{
		Entrypoint:   ProposeEntrypoint,
		FrozenTokens: frozenTokens,
		Metadata:     metadata,
	}, nil
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
