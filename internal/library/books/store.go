package books

import (
	"context"
	"database/sql"
	"errors"

	platformdb "LIBRIS-backend/internal/platform/db"

	"github.com/mattn/go-sqlite3"
)

// Book は books テーブルの1行を表す
type Book struct {
	ID      int64
	Title   string
	Author  sql.NullString
	ISBN    sql.NullString
	AddedAt string
}

type Store struct{ db platformdb.DBTX }

func NewStore(db platformdb.DBTX) *Store { return &Store{db: db} }

// Insert は追加した行のIDを返す。isbn重複は ErrConflict に変換する。
func (s *Store) Insert(ctx context.Context, title string, author, isbn sql.NullString, addedAt string) (int64, error) {
	const q = `
INSERT INTO books (title, author, isbn, added_at)
VALUES (?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q, title, author, isbn, addedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrConflict("isbn already exists")
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) List(ctx context.Context) ([]Book, error) {
	const q = `
SELECT id, title, author, isbn, added_at
FROM books
ORDER BY id
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Book, 0, 16)
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.AddedAt); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete は消した行数を返す（0でもエラーにしない）
func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM books WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
