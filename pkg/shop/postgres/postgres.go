// Package postgres archives finalized purchases in PostgreSQL. The archive
// is write-only: the service never reads it back, so it does not make the
// in-memory store durable.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"storefront/pkg/shop"
)

// Schema creates the archive tables.
const Schema = `
CREATE TABLE IF NOT EXISTS purchases (
	run_id      UUID        NOT NULL,
	purchase_id INT         NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	total_price NUMERIC     NOT NULL,
	PRIMARY KEY (run_id, purchase_id)
);
CREATE TABLE IF NOT EXISTS purchase_lines (
	run_id      UUID    NOT NULL,
	purchase_id INT     NOT NULL,
	line_no     INT     NOT NULL,
	item_id     INT     NOT NULL,
	name        TEXT    NOT NULL,
	price       NUMERIC NOT NULL,
	quantity    INT     NOT NULL,
	subtotal    NUMERIC NOT NULL,
	PRIMARY KEY (run_id, purchase_id, line_no),
	FOREIGN KEY (run_id, purchase_id) REFERENCES purchases (run_id, purchase_id)
);`

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// Archive implements shop.PurchaseSink. Purchase ids restart at 1 with every
// process, so rows are keyed by a per-process run id as well.
type Archive struct {
	db    *sql.DB
	runID uuid.UUID
}

// New creates an archive for this process run.
func New(db *sql.DB) *Archive {
	return &Archive{db: db, runID: uuid.New()}
}

// RunID identifies the rows written by this archive.
func (a *Archive) RunID() uuid.UUID { return a.runID }

// Migrate creates the tables if they do not exist.
func (a *Archive) Migrate(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, Schema)
	return err
}

// Record inserts the purchase and its lines in one transaction. Recording
// the same purchase twice is a no-op.
func (a *Archive) Record(ctx context.Context, p shop.Purchase) error {
	err := a.execTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO purchases (run_id,purchase_id,created_at,total_price) VALUES ($1,$2,$3,$4)",
			a.runID, p.ID, p.CreatedAt, p.TotalPrice)
		if err != nil {
			return err
		}
		for i, l := range p.Items {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO purchase_lines (run_id,purchase_id,line_no,item_id,name,price,quantity,subtotal) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
				a.runID, p.ID, i+1, l.ItemID, l.Name, l.Price, l.Quantity, l.Subtotal)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

func (a *Archive) execTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var _ shop.PurchaseSink = (*Archive)(nil)
