// Package michelson packs and unpacks the proposal metadata DAO contracts
// store as Michelson bytes. The field names follow the contract annotations so
// that the same records can be read from an indexer's JSON rendering.
package michelson

import "github.com/shopspring/decimal"

// TreasuryMetadata is the argument of a treasury DAO proposal:
//
//	pair (nat %agora_post_id)
//	     (list %transfers (or (pair %xtz_transfer_type (mutez %amount) (address %recipient))
//	                          (pair %token_transfer_type (address %contract_address)
//	                                (list %transfer_list (pair (address %from_)
//	                                      (list %txs (pair (address %to_) (nat %token_id) (nat %amount))))))))
type TreasuryMetadata struct {
	AgoraPostID decimal.Decimal `json:"agora_post_id"`
	Transfers   []Transfer      `json:"transfers"`
}

// Transfer holds one of the two transfer shapes. Entries are not tagged, the
// populated field tells them apart.
type Transfer struct {
	XTZ   *XTZTransfer   `json:"xtz_transfer_type,omitempty"`
	Token *TokenTransfer `json:"token_transfer_type,omitempty"`
}

type XTZTransfer struct {
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient"`
}

type TokenTransfer struct {
	ContractAddress string               `json:"contract_address"`
	TransferList    []TokenTransferBatch `json:"transfer_list"`
}

type TokenTransferBatch struct {
	From string    `json:"from_"`
	Txs  []TokenTx `json:"txs"`
}

type TokenTx struct {
	To      string          `json:"to_"`
	TokenID decimal.Decimal `json:"token_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// RegistryMetadata is the argument of a registry DAO proposal:
//
//	pair (nat %agora_post_id) (list %registry_diff (pair (string %key) (option %value string)))
type RegistryMetadata struct {
	AgoraPostID decimal.Decimal `json:"agora_post_id"`
	Diff        []RegistryDiff  `json:"registry_diff"`
}

type RegistryDiff struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}
