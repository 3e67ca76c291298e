package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Token is the governance token of a DAO. Supply is in the smallest unit.
type Token struct {
	Contract string          `json:"contract"`
	TokenID  uint64          `json:"tokenId"`
	Symbol   string          `json:"symbol"`
	Decimals int32           `json:"decimals"`
	Supply   decimal.Decimal `json:"supply"`
}

// Governance holds the DAO wide values every proposal of the DAO is mapped
// against.
type Governance struct {
	TokenSupply   decimal.Decimal
	TokenDecimals int32

	// CycleStartLevel is the level at which voting cycle 0 begins and
	// CycleLength the number of levels in one cycle.
	CycleStartLevel int64
	CycleLength     int64
}

func (g Governance) Validate() error {
	if g.TokenDecimals < 0 {
		return fmt.Errorf("governance token has %d decimals: %w", g.TokenDecimals, ErrInvalidDecimals)
	}
	if g.TokenSupply.IsNegative() {
		return fmt.Errorf("governance token supply %s: %w", g.TokenSupply, ErrInvalidSupply)
	}
	if g.CycleLength <= 0 {
		return fmt.Errorf("cycle length %d: %w", g.CycleLength, ErrInvalidCycle)
	}
	return nil
}

type DAO struct {
	Address  string   `json:"address"`
	Name     string   `json:"name"`
	Template Template `json:"template"`
	Token    Token    `json:"token"`

	// Guardian may drop any proposal of the DAO.
	Guardian string `json:"guardian"`

	CycleStartLevel int64 `json:"cycleStartLevel"`
	CycleLength     int64 `json:"cycleLength"`
}

func (d DAO) Governance() Governance {
	return Governance{
		TokenSupply:     d.Token.Supply,
		TokenDecimals:   d.Token.Decimals,
		CycleStartLevel: d.CycleStartLevel,
		CycleLength:     d.CycleLength,
	}
}
