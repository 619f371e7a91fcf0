package users

import (
	"context"
	"database/sql"
	"errors"

	platformdb "LIBRIS-backend/internal/platform/db"
)

// User は users テーブルの1行（貸出先の利用者）
type User struct {
	ID    int64
	Name  string
	Email sql.NullString
	Phone sql.NullString
}

type Store struct{ db platformdb.DBTX }

func NewStore(db platformdb.DBTX) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, name string, email, phone sql.NullString) (int64, error) {
	const q = `
INSERT INTO users (name, email, phone)
VALUES (?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q, name, email, phone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `
SELECT id, name, email, phone
FROM users
ORDER BY id
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]User, 0, 16)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// 見つからなければ (nil, nil)。ハンドラ側で {} を返す（既存挙動の維持）。
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `
SELECT id, name, email, phone
FROM users
WHERE id = ?
LIMIT 1
`
	var u User
	err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update は更新行数を返す（0でもエラーにしない）
func (s *Store) Update(ctx context.Context, id int64, name string, email, phone sql.NullString) (int64, error) {
	const q = `UPDATE users SET name = ?, email = ?, phone = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, name, email, phone, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
