package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Stores bundles the repositories that participate in a sale workflow
// transaction: stock adjustments and the sale record itself must commit
// or roll back together.
type Stores struct {
	Products ProductRepository
	Sales    SaleRepository
}

// TxManager runs a function against transaction-bound stores. If the
// function returns an error every mutation made through the stores is
// rolled back.
type TxManager interface {
	Do(ctx context.Context, fn func(Stores) error) error
}

type txManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over a database handle
func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(Stores) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stores := Stores{
		Products: NewProductRepository(tx),
		Sales:    NewSaleRepository(tx),
	}

	if err := fn(stores); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
