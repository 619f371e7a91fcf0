package loans

import "database/sql"

// Loan は loans テーブルの1行を表す。
// return_date が NULL の行が「貸出中（open loan）」。
type Loan struct {
	ID           int64
	LoanULID     string
	BookID       int64
	UserID       int64
	CheckoutDate string
	DueDate      string
	ReturnDate   sql.NullString
}

// LoanWithNames は一覧表示用に books.title / users.name を結合した行
type LoanWithNames struct {
	Loan
	Title    string
	UserName string
}
