package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
)

// ==================== Ledger Methods ====================
//
// Every mutation runs in one transaction that also bumps ledger_meta.version.
// Debits are guarded in SQL so a balance can never be read and written back
// by two callers in between.

// SeedPots creates the configured pots if they do not exist and refreshes
// their percentages. Existing balances are kept.
func (r *Repository) SeedPots(ctx context.Context, pots []models.Pot) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for i, p := range pots {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO pots (name, percentage, balance_cents, position) VALUES (?, ?, 0, ?)
				ON CONFLICT(name) DO UPDATE SET percentage = excluded.percentage, position = excluded.position
			`, string(p.Name), p.Percentage.String(), i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func listPots(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}) ([]models.Pot, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, percentage, balance_cents FROM pots ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pots []models.Pot
	for rows.Next() {
		var p models.Pot
		var name string
		var cents int64
		if err := rows.Scan(&name, &p.Percentage, &cents); err != nil {
			return nil, err
		}
		p.Name = models.PotName(name)
		p.Balance = fromCents(cents)
		pots = append(pots, p)
	}
	return pots, rows.Err()
}

// ListPots returns every pot in distribution order
func (r *Repository) ListPots(ctx context.Context) ([]models.Pot, error) {
	return listPots(ctx, r.db)
}

// LedgerSnapshot reads all pots and the ledger version in one transaction
func (r *Repository) LedgerSnapshot(ctx context.Context) (*models.LedgerSnapshot, error) {
	snap := &models.LedgerSnapshot{Total: decimal.Zero}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		pots, err := listPots(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `SELECT version FROM ledger_meta WHERE id = 1`).Scan(&snap.Version); err != nil {
			return err
		}
		snap.Pots = pots
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, p := range snap.Pots {
		snap.Total = snap.Total.Add(p.Balance)
	}
	return snap, nil
}

// CreditPots adds each amount to its pot
func (r *Repository) CreditPots(ctx context.Context, credits []models.PotAmount) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range credits {
			if err := creditPot(ctx, tx, c.Pot, toCents(c.Amount)); err != nil {
				return err
			}
		}
		return bumpVersion(ctx, tx)
	})
}

// TransferFunds debits one pot, credits another and appends the transfer record
func (r *Repository) TransferFunds(ctx context.Context, t *models.Transfer) error {
	cents := toCents(t.Amount)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitPot(ctx, tx, t.From, cents); err != nil {
			return err
		}
		if err := creditPot(ctx, tx, t.To, cents); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transfers (id, from_pot, to_pot, amount_cents, created_at) VALUES (?, ?, ?, ?, ?)
		`, t.ID, string(t.From), string(t.To), cents, t.CreatedAt.Unix())
		if err != nil {
			return err
		}
		return bumpVersion(ctx, tx)
	})
}

// WithdrawFunds debits a pot and appends the withdrawal record
func (r *Repository) WithdrawFunds(ctx context.Context, w *models.Withdrawal) error {
	cents := toCents(w.Amount)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitPot(ctx, tx, w.Pot, cents); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO withdrawals (id, pot, amount_cents, note, created_at) VALUES (?, ?, ?, ?, ?)
		`, w.ID, string(w.Pot), cents, w.Note, w.CreatedAt.Unix())
		if err != nil {
			return err
		}
		return bumpVersion(ctx, tx)
	})
}

// DeductPrizeFund debits the prize fund by a draw's total payout and appends
// the settlement record
func (r *Repository) DeductPrizeFund(ctx context.Context, s *models.DrawSettlement) error {
	cents := toCents(s.Amount)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitPot(ctx, tx, models.PotPrizeFund, cents); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO draw_settlements (id, draw_ref, amount_cents, created_at) VALUES (?, ?, ?, ?)
		`, s.ID, s.DrawRef, cents, s.CreatedAt.Unix())
		if err != nil {
			return err
		}
		return bumpVersion(ctx, tx)
	})
}

// ListTransfers returns the most recent transfers, newest first
func (r *Repository) ListTransfers(ctx context.Context, limit int) ([]models.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, from_pot, to_pot, amount_cents, created_at FROM transfers
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		var from, to string
		var cents, createdAt int64
		if err := rows.Scan(&t.ID, &from, &to, &cents, &createdAt); err != nil {
			return nil, err
		}
		t.From = models.PotName(from)
		t.To = models.PotName(to)
		t.Amount = fromCents(cents)
		t.CreatedAt = time.Unix(createdAt, 0)
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// ListWithdrawals returns the most recent withdrawals, newest first
func (r *Repository) ListWithdrawals(ctx context.Context, limit int) ([]models.Withdrawal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pot, amount_cents, note, created_at FROM withdrawals
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		var pot string
		var note sql.NullString
		var cents, createdAt int64
		if err := rows.Scan(&w.ID, &pot, &cents, &note, &createdAt); err != nil {
			return nil, err
		}
		w.Pot = models.PotName(pot)
		w.Amount = fromCents(cents)
		w.Note = note.String
		w.CreatedAt = time.Unix(createdAt, 0)
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// ListDrawSettlements returns the most recent payout deductions, newest first
func (r *Repository) ListDrawSettlements(ctx context.Context, limit int) ([]models.DrawSettlement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, draw_ref, amount_cents, created_at FROM draw_settlements
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []models.DrawSettlement
	for rows.Next() {
		var s models.DrawSettlement
		var drawRef sql.NullString
		var cents, createdAt int64
		if err := rows.Scan(&s.ID, &drawRef, &cents, &createdAt); err != nil {
			return nil, err
		}
		s.DrawRef = drawRef.String
		s.Amount = fromCents(cents)
		s.CreatedAt = time.Unix(createdAt, 0)
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

func creditPot(ctx context.Context, tx *sql.Tx, pot models.PotName, cents int64) error {
	result, err := tx.ExecContext(ctx, `UPDATE pots SET balance_cents = balance_cents + ? WHERE name = ?`, cents, string(pot))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownPot
	}
	return nil
}

// debitPot subtracts cents only if the pot can cover it
func debitPot(ctx context.Context, tx *sql.Tx, pot models.PotName, cents int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE pots SET balance_cents = balance_cents - ? WHERE name = ? AND balance_cents >= ?
	`, cents, string(pot), cents)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM pots WHERE name = ?`, string(pot)).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrUnknownPot
	}
	if err != nil {
		return err
	}
	return ErrInsufficientFunds
}

func bumpVersion(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `UPDATE ledger_meta SET version = version + 1 WHERE id = 1`)
	return err
}
