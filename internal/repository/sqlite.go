package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS org_entities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			parent_id INTEGER,
			sales_share TEXT NOT NULL DEFAULT '0',
			profit_share TEXT NOT NULL DEFAULT '0',
			active BOOLEAN DEFAULT 1,
			created_at INTEGER NOT NULL,
			FOREIGN KEY (parent_id) REFERENCES org_entities(id)
		)`,
		`CREATE TABLE IF NOT EXISTS wagers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticket TEXT UNIQUE NOT NULL,
			booth_id INTEGER NOT NULL,
			lottery_code TEXT NOT NULL,
			outcome TEXT NOT NULL,
			stake_cents INTEGER NOT NULL,
			payout_cents INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			placed_at INTEGER NOT NULL,
			settled_at INTEGER,
			FOREIGN KEY (booth_id) REFERENCES org_entities(id)
		)`,
		`CREATE TABLE IF NOT EXISTS pots (
			name TEXT PRIMARY KEY,
			percentage TEXT NOT NULL,
			balance_cents INTEGER NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transfers (
			id TEXT PRIMARY KEY,
			from_pot TEXT NOT NULL,
			to_pot TEXT NOT NULL,
			amount_cents INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
			id TEXT PRIMARY KEY,
			pot TEXT NOT NULL,
			amount_cents INTEGER NOT NULL,
			note TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS draw_settlements (
			id TEXT PRIMARY KEY,
			draw_ref TEXT,
			amount_cents INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wagers_booth_placed ON wagers(booth_id, placed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_parent ON org_entities(parent_id)`,
		`INSERT OR IGNORE INTO ledger_meta (id, version) VALUES (1, 0)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on any error
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ==================== Entity Methods ====================

const entityColumns = `id, name, entity_type, parent_id, sales_share, profit_share, active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (models.OrgEntity, error) {
	var e models.OrgEntity
	var entityType string
	var parentID sql.NullInt64
	var createdAt int64
	if err := row.Scan(&e.ID, &e.Name, &entityType, &parentID, &e.SalesShare, &e.ProfitShare, &e.Active, &createdAt); err != nil {
		return e, err
	}
	e.Type = models.EntityType(entityType)
	if parentID.Valid {
		id := parentID.Int64
		e.ParentID = &id
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	return e, nil
}

// ListEntities returns every organizational entity, active or not, ordered by id
func (r *Repository) ListEntities(ctx context.Context) ([]models.OrgEntity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entityColumns+` FROM org_entities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []models.OrgEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// ListChildEntities returns the direct children of an entity
func (r *Repository) ListChildEntities(ctx context.Context, parentID int64) ([]models.OrgEntity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entityColumns+` FROM org_entities WHERE parent_id = ? ORDER BY id`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []models.OrgEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// GetEntity retrieves an entity by ID
func (r *Repository) GetEntity(ctx context.Context, id int64) (*models.OrgEntity, error) {
	e, err := scanEntity(r.db.QueryRowContext(ctx, `SELECT `+entityColumns+` FROM org_entities WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntity inserts an entity and returns its new ID
func (r *Repository) CreateEntity(ctx context.Context, e *models.OrgEntity) (int64, error) {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO org_entities (name, entity_type, parent_id, sales_share, profit_share, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.Name, string(e.Type), e.ParentID, e.SalesShare.String(), e.ProfitShare.String(), e.Active, createdAt.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateEntity updates an entity's name and share percentages.
// Type and parent are fixed at creation.
func (r *Repository) UpdateEntity(ctx context.Context, e *models.OrgEntity) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE org_entities SET name = ?, sales_share = ?, profit_share = ? WHERE id = ?
	`, e.Name, e.SalesShare.String(), e.ProfitShare.String(), e.ID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetEntityActive activates or deactivates an entity
func (r *Repository) SetEntityActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE org_entities SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Wager Methods ====================

const wagerColumns = `id, ticket, booth_id, lottery_code, outcome, stake_cents, payout_cents, status, placed_at, settled_at`

func scanWager(row rowScanner) (models.Wager, error) {
	var w models.Wager
	var stake, payout, placedAt int64
	var status string
	var settledAt sql.NullInt64
	if err := row.Scan(&w.ID, &w.Ticket, &w.BoothID, &w.LotteryCode, &w.Outcome, &stake, &payout, &status, &placedAt, &settledAt); err != nil {
		return w, err
	}
	w.Stake = fromCents(stake)
	w.Payout = fromCents(payout)
	w.Status = models.WagerStatus(status)
	w.PlacedAt = time.Unix(placedAt, 0)
	if settledAt.Valid {
		t := time.Unix(settledAt.Int64, 0)
		w.SettledAt = &t
	}
	return w, nil
}

// RecordWager inserts a pending wager
func (r *Repository) RecordWager(ctx context.Context, w *models.Wager) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO wagers (ticket, booth_id, lottery_code, outcome, stake_cents, payout_cents, status, placed_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, w.Ticket, w.BoothID, w.LotteryCode, w.Outcome, toCents(w.Stake), string(models.WagerPending), w.PlacedAt.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetWagerByTicket retrieves a wager by its ticket code
func (r *Repository) GetWagerByTicket(ctx context.Context, ticket string) (*models.Wager, error) {
	w, err := scanWager(r.db.QueryRowContext(ctx, `SELECT `+wagerColumns+` FROM wagers WHERE ticket = ?`, ticket))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWagersByBooth returns a booth's most recent wagers
func (r *Repository) ListWagersByBooth(ctx context.Context, boothID int64, limit int) ([]models.Wager, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+wagerColumns+` FROM wagers WHERE booth_id = ?
		ORDER BY placed_at DESC, id DESC LIMIT ?
	`, boothID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wagers []models.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		wagers = append(wagers, w)
	}
	return wagers, rows.Err()
}

// SettleWager records the outcome of a pending wager and credits the stake
// split to the pots in the same transaction. A nil credits slice leaves the
// ledger untouched.
func (r *Repository) SettleWager(ctx context.Context, ticket string, status models.WagerStatus, payout decimal.Decimal, settledAt time.Time, credits []models.PotAmount) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE wagers SET status = ?, payout_cents = ?, settled_at = ?
			WHERE ticket = ? AND status = ?
		`, string(status), toCents(payout), settledAt.Unix(), ticket, string(models.WagerPending))
		if err != nil {
			return err
		}
		if err := requireTransition(ctx, tx, result, ticket); err != nil {
			return err
		}
		if len(credits) == 0 {
			return nil
		}
		for _, c := range credits {
			if err := creditPot(ctx, tx, c.Pot, toCents(c.Amount)); err != nil {
				return err
			}
		}
		return bumpVersion(ctx, tx)
	})
}

// MarkWagerPaid moves a won wager to paid
func (r *Repository) MarkWagerPaid(ctx context.Context, ticket string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wagers SET status = ? WHERE ticket = ? AND status = ?
	`, string(models.WagerPaid), ticket, string(models.WagerWon))
	if err != nil {
		return err
	}
	return requireTransition(ctx, r.db, result, ticket)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireTransition distinguishes a missing ticket from one in the wrong state
func requireTransition(ctx context.Context, q rowQuerier, result sql.Result, ticket string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = q.QueryRowContext(ctx, `SELECT 1 FROM wagers WHERE ticket = ?`, ticket).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrWagerState
}

// QueryStakes sums active (not voided) stakes per booth for wagers placed in [from, to)
func (r *Repository) QueryStakes(ctx context.Context, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error) {
	return r.sumByBooth(ctx, `
		SELECT booth_id, SUM(stake_cents) FROM wagers
		WHERE status != 'voided' AND placed_at >= ? AND placed_at < ? AND booth_id IN (%s)
		GROUP BY booth_id
	`, boothIDs, from, to)
}

// QueryPayouts sums won and paid payouts per booth for wagers placed in [from, to)
func (r *Repository) QueryPayouts(ctx context.Context, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error) {
	return r.sumByBooth(ctx, `
		SELECT booth_id, SUM(payout_cents) FROM wagers
		WHERE status IN ('won', 'paid') AND placed_at >= ? AND placed_at < ? AND booth_id IN (%s)
		GROUP BY booth_id
	`, boothIDs, from, to)
}

func (r *Repository) sumByBooth(ctx context.Context, query string, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error) {
	sums := make(map[int64]decimal.Decimal, len(boothIDs))
	if len(boothIDs) == 0 {
		return sums, nil
	}

	args := make([]any, 0, len(boothIDs)+2)
	args = append(args, from.Unix(), to.Unix())
	for _, id := range boothIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, strings.Replace(query, "%s", placeholders(len(boothIDs)), 1), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var boothID, cents int64
		if err := rows.Scan(&boothID, &cents); err != nil {
			return nil, err
		}
		sums[boothID] = fromCents(cents)
	}
	return sums, rows.Err()
}
