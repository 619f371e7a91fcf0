package loans

// 貸出登録リクエスト
type CheckoutRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
	UserID int64 `json:"user_id" binding:"required"`
	// "2006-01-02" か RFC3339 の文字列を想定
	DueDate string `json:"due_date" binding:"required"`
}

// 返却リクエスト（bookを起点に、開いている貸出をすべて閉じる）
type CheckinRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

// 貸出一覧レスポンス。returned は return_date から導出する表示用フラグで、
// DBには持たない。
type LoanResponse struct {
	ID           int64   `json:"id"`
	LoanULID     string  `json:"loan_ulid"`
	BookID       int64   `json:"book_id"`
	UserID       int64   `json:"user_id"`
	CheckoutDate string  `json:"checkout_date"`
	DueDate      string  `json:"due_date"`
	ReturnDate   *string `json:"return_date"`
	Title        string  `json:"title"`
	UserName     string  `json:"user_name"`
	Returned     bool    `json:"returned"`
}
