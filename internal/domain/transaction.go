package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Side buy or sell side of a transaction.
type Side string

const (
	// SideBuy acquisition of an asset.
	SideBuy Side = "buy"
	// SideSell disposal of an asset.
	SideSell Side = "sell"
)

// Transaction is a single immutable buy/sell event in the holder's log.
// The append-only transaction log is the source of truth; holdings are
// always recomputed from it, never stored independently.
type Transaction struct {
	// ID unique transaction identifier.
	ID uuid.UUID `json:"id"`
	// AssetID identifier of the traded asset.
	AssetID string `json:"asset_id"`
	// Side buy or sell.
	Side Side `json:"side"`
	// Amount quantity of the asset, always positive.
	Amount decimal.Decimal `json:"amount"`
	// UnitPrice price paid or received per unit, always positive.
	UnitPrice decimal.Decimal `json:"unit_price"`
	// Timestamp when the transaction was recorded.
	Timestamp time.Time `json:"ts"`
}

// NewTransaction constructs a validated transaction.
func NewTransaction(assetID string, side Side, amount, unitPrice decimal.Decimal, ts time.Time) (Transaction, error) {
	tx := Transaction{
		ID:        uuid.New(),
		AssetID:   assetID,
		Side:      side,
		Amount:    amount,
		UnitPrice: unitPrice,
		Timestamp: ts,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Validate checks structural transaction invariants. Log-dependent checks
// (a sell must not exceed the held amount) live in the ledger replay.
func (t Transaction) Validate() error {
	if t.AssetID == "" {
		return errors.Wrap(ErrInvalidTransaction, "asset id is required")
	}
	if t.Side != SideBuy && t.Side != SideSell {
		return errors.Wrapf(ErrInvalidTransaction, "unknown side %q", t.Side)
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.Wrap(ErrInvalidTransaction, "amount must be positive")
	}
	if t.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return errors.Wrap(ErrInvalidTransaction, "unit price must be positive")
	}
	return nil
}

// Total returns amount multiplied by unit price.
func (t Transaction) Total() decimal.Decimal {
	return t.Amount.Mul(t.UnitPrice)
}
