package loans

import (
	"context"

	platformdb "LIBRIS-backend/internal/platform/db"
)

type Store struct{ db platformdb.DBTX }

func NewStore(db platformdb.DBTX) *Store { return &Store{db: db} }

// InsertLoan は1回の貸出を1行のINSERTで登録する（これ以上の原子性は要らない）。
// 同じ本に対する open loan の有無はここでは見ない。重複貸出を許すのは仕様。
func (s *Store) InsertLoan(ctx context.Context, l *Loan) error {
	const q = `
INSERT INTO loans
(loan_ulid, book_id, user_id, checkout_date, due_date, return_date)
VALUES (?, ?, ?, ?, ?, NULL)
`
	res, err := s.db.ExecContext(ctx, q, l.LoanULID, l.BookID, l.UserID, l.CheckoutDate, l.DueDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// CloseOpenLoans は対象bookの return_date が NULL の行すべてに返却日時を打つ。
// 重複貸出で複数行が開いていた場合も一括で閉じる（既存挙動の維持）。
// 開いている行が無ければ 0 を返す。エラーではない。
func (s *Store) CloseOpenLoans(ctx context.Context, bookID int64, returnDate string) (int64, error) {
	const q = `
UPDATE loans SET return_date = ?
WHERE book_id = ? AND return_date IS NULL
`
	res, err := s.db.ExecContext(ctx, q, returnDate, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListWithNames は books.title / users.name を内結合で引いて全件返す。
// book_id / user_id は常に実在する前提なので内結合で行が落ちることはない。
func (s *Store) ListWithNames(ctx context.Context) ([]LoanWithNames, error) {
	const q = `
SELECT loans.id, loans.loan_ulid, loans.book_id, loans.user_id,
       loans.checkout_date, loans.due_date, loans.return_date,
       books.title, users.name AS user_name
FROM loans
JOIN books ON loans.book_id = books.id
JOIN users ON loans.user_id = users.id
ORDER BY loans.id
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]LoanWithNames, 0, 16)
	for rows.Next() {
		var l LoanWithNames
		if err := rows.Scan(
			&l.ID, &l.LoanULID, &l.BookID, &l.UserID,
			&l.CheckoutDate, &l.DueDate, &l.ReturnDate,
			&l.Title, &l.UserName,
		); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
