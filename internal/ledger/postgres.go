package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
)

// PostgresStore persists the configuration row and the balance table in
// PostgreSQL. Balances are NUMERIC(39,0) so the full 128-bit range fits.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
        CREATE TABLE IF NOT EXISTS ledger_config (
            id            smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
            owner_address text NOT NULL,
            send_fee      numeric(39,0) NOT NULL CHECK (send_fee >= 0)
        );
        CREATE TABLE IF NOT EXISTS balances (
            account text PRIMARY KEY,
            balance numeric(39,0) NOT NULL CHECK (balance >= 0)
        );
        CREATE TABLE IF NOT EXISTS postings (
            id         uuid PRIMARY KEY,
            account    text NOT NULL,
            direction  text NOT NULL CHECK (direction IN ('credit', 'debit')),
            amount     numeric(39,0) NOT NULL CHECK (amount >= 0),
            created_at timestamptz NOT NULL DEFAULT now()
        );`
	_, err := s.db.Exec(ctx, schema)
	return err
}

// Config reads the committed configuration row.
func (s *PostgresStore) Config(ctx context.Context) (Config, error) {
	return scanConfig(s.db.QueryRow(ctx, `SELECT owner_address, send_fee::text FROM ledger_config WHERE id = 1`))
}

// Balance returns the committed balance, zero when the account has no row.
func (s *PostgresStore) Balance(ctx context.Context, addr account.Address) (amount.Amount, error) {
	var raw string
	err := s.db.QueryRow(ctx, `SELECT balance::text FROM balances WHERE account = $1`, addr.String()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return amount.Zero(), nil
	}
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.Parse(raw)
}

// Begin opens a database transaction; Rollback after Commit is a no-op, so
// callers can always defer Rollback.
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) SetConfig(ctx context.Context, cfg Config) error {
	tag, err := t.tx.Exec(ctx, `INSERT INTO ledger_config (id, owner_address, send_fee)
        VALUES (1, $1, $2::numeric) ON CONFLICT (id) DO NOTHING`, cfg.Owner.String(), cfg.SendFee.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyInitialized
	}
	return nil
}

func (t *postgresTx) Config(ctx context.Context) (Config, error) {
	return scanConfig(t.tx.QueryRow(ctx, `SELECT owner_address, send_fee::text FROM ledger_config WHERE id = 1`))
}

func (t *postgresTx) Lookup(ctx context.Context, addr account.Address) (amount.Amount, bool, error) {
	var raw string
	err := t.tx.QueryRow(ctx, `SELECT balance::text FROM balances WHERE account = $1 FOR UPDATE`, addr.String()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return amount.Zero(), false, nil
	}
	if err != nil {
		return amount.Amount{}, false, err
	}
	bal, err := amount.Parse(raw)
	if err != nil {
		return amount.Amount{}, false, fmt.Errorf("corrupt balance for %s: %w", addr, err)
	}
	return bal, true, nil
}

func (t *postgresTx) EnsureAccount(ctx context.Context, addr account.Address) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO balances (account, balance) VALUES ($1, 0)
        ON CONFLICT (account) DO NOTHING`, addr.String())
	return err
}

func (t *postgresTx) Credit(ctx context.Context, addr account.Address, amt amount.Amount) (amount.Amount, error) {
	if amt.IsZero() {
		cur, _, err := t.Lookup(ctx, addr)
		if err != nil {
			return amount.Amount{}, err
		}
		return cur, nil
	}
	// FOR UPDATE cannot lock a row that does not exist yet, so materialize
	// the entry first; the subsequent lookup then always locks it, and a
	// concurrent first credit serializes instead of being overwritten.
	if err := t.EnsureAccount(ctx, addr); err != nil {
		return amount.Amount{}, err
	}
	cur, _, err := t.Lookup(ctx, addr)
	if err != nil {
		return amount.Amount{}, err
	}
	next, err := cur.Add(amt)
	if err != nil {
		return amount.Amount{}, ErrBalanceOverflow
	}
	if _, err := t.tx.Exec(ctx, `UPDATE balances SET balance = $2::numeric WHERE account = $1`, addr.String(), next.String()); err != nil {
		return amount.Amount{}, err
	}
	if err := t.recordPosting(ctx, addr, "credit", amt); err != nil {
		return amount.Amount{}, err
	}
	return next, nil
}

func (t *postgresTx) Debit(ctx context.Context, addr account.Address, amt amount.Amount) (amount.Amount, error) {
	cur, ok, err := t.Lookup(ctx, addr)
	if err != nil {
		return amount.Amount{}, err
	}
	if !ok {
		return amount.Amount{}, ErrUnknownAccount
	}
	if amt.Cmp(cur) > 0 {
		return amount.Amount{}, ErrInsufficientFunds
	}
	next, err := cur.Sub(amt)
	if err != nil {
		return amount.Amount{}, err
	}

	cfg, err := t.Config(ctx)
	if err != nil {
		return amount.Amount{}, err
	}
	if next.IsZero() && addr != cfg.Owner {
		if _, err := t.tx.Exec(ctx, `DELETE FROM balances WHERE account = $1`, addr.String()); err != nil {
			return amount.Amount{}, err
		}
	} else {
		if _, err := t.tx.Exec(ctx, `UPDATE balances SET balance = $2::numeric WHERE account = $1`, addr.String(), next.String()); err != nil {
			return amount.Amount{}, err
		}
	}
	if err := t.recordPosting(ctx, addr, "debit", amt); err != nil {
		return amount.Amount{}, err
	}
	return next, nil
}

func (t *postgresTx) recordPosting(ctx context.Context, addr account.Address, direction string, amt amount.Amount) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO postings (id, account, direction, amount) VALUES ($1, $2, $3, $4::numeric)`,
		uuid.New(), addr.String(), direction, amt.String())
	return err
}

func (t *postgresTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func scanConfig(row pgx.Row) (Config, error) {
	var (
		owner string
		fee   string
	)
	if err := row.Scan(&owner, &fee); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Config{}, ErrNotInitialized
		}
		return Config{}, err
	}
	sendFee, err := amount.Parse(fee)
	if err != nil {
		return Config{}, fmt.Errorf("corrupt send_fee: %w", err)
	}
	return Config{Owner: account.Address(owner), SendFee: sendFee}, nil
}
