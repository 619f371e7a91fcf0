package auth

import (
	"context"
	"database/sql"
	"errors"

	platformdb "LIBRIS-backend/internal/platform/db"
)

// Account は認証用アカウント。貸出先のユーザ（borrower）とは別物。
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    string
}

type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, a *Account) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Account, error)
}

type Store struct{ db platformdb.DBTX }

func NewStore(db platformdb.DBTX) AccountStore {
	return &Store{db: db}
}

// 見つからなければ (nil, nil) を返す
func (s *Store) GetByUsername(ctx context.Context, username string) (*Account, error) {
	const q = `
SELECT id, username, password_hash, is_admin, created_at
FROM accounts
WHERE username = ?
LIMIT 1
`
	return scanAccount(s.db.QueryRowContext(ctx, q, username))
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Account, error) {
	const q = `
SELECT id, username, password_hash, is_admin, created_at
FROM accounts
WHERE id = ?
LIMIT 1
`
	return scanAccount(s.db.QueryRowContext(ctx, q, id))
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var isAdminInt int
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &isAdminInt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.IsAdmin = isAdminInt != 0
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) (int64, error) {
	const q = `
INSERT INTO accounts (username, password_hash, is_admin)
VALUES (?, ?, ?)
`
	isAdmin := 0
	if a.IsAdmin {
		isAdmin = 1
	}
	res, err := s.db.ExecContext(ctx, q, a.Username, a.PasswordHash, isAdmin)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	const q = `UPDATE accounts SET password_hash = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, passwordHash, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

func (s *Store) List(ctx context.Context) ([]Account, error) {
	const q = `
SELECT id, username, password_hash, is_admin, created_at
FROM accounts
ORDER BY id
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Account, 0, 4)
	for rows.Next() {
		var a Account
		var isAdminInt int
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &isAdminInt, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.IsAdmin = isAdminInt != 0
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
