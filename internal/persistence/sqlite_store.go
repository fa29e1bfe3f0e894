package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/petrijr/caseflow/internal/accounts"
)

// SQLiteStore is an AccountStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements AccountStore.
var _ AccountStore = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database and
// returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, storeError("init schema", err)
	}
	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		currency TEXT NOT NULL,
		frozen INTEGER NOT NULL DEFAULT 0,
		opened_at INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS notices (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL,
		text TEXT NOT NULL,
		posted_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS notices_by_account ON notices (account_id, posted_at);`,
}

func (s *SQLiteStore) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveAccount(ctx context.Context, acct accounts.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, owner, currency, frozen, opened_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			currency = excluded.currency,
			frozen = excluded.frozen,
			opened_at = excluded.opened_at`,
		acct.ID,
		acct.Owner,
		acct.Currency,
		acct.Frozen,
		acct.OpenedAt.UnixNano(),
	)
	if err != nil {
		return storeError("save account", err)
	}
	return nil
}

func (s *SQLiteStore) Account(ctx context.Context, id string) (accounts.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, currency, frozen, opened_at
		FROM accounts
		WHERE id = ?`, id)

	var (
		acct   accounts.Account
		opened int64
	)
	err := row.Scan(&acct.ID, &acct.Owner, &acct.Currency, &acct.Frozen, &opened)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.Account{}, notFound("account", id)
	}
	if err != nil {
		return accounts.Account{}, storeError("load account", err)
	}
	acct.OpenedAt = time.Unix(0, opened).UTC()
	return acct, nil
}

func (s *SQLiteStore) AddNotice(ctx context.Context, n accounts.Notice) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notices (account_id, text, posted_at)
		VALUES (?, ?, ?)`,
		n.AccountID,
		n.Text,
		n.PostedAt.UnixNano(),
	)
	if err != nil {
		return storeError("add notice", err)
	}
	return nil
}

func (s *SQLiteStore) LatestNotice(ctx context.Context, accountID string) (accounts.Notice, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT account_id, text, posted_at
		FROM notices
		WHERE account_id = ?
		ORDER BY posted_at DESC, seq DESC
		LIMIT 1`, accountID)

	var (
		n      accounts.Notice
		posted int64
	)
	err := row.Scan(&n.AccountID, &n.Text, &posted)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.Notice{}, notFound("notice", accountID)
	}
	if err != nil {
		return accounts.Notice{}, storeError("load notice", err)
	}
	n.PostedAt = time.Unix(0, posted).UTC()
	return n, nil
}
