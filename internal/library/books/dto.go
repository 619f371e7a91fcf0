package books

// 登録リクエスト
type CreateBookRequest struct {
	Title  string  `json:"title" binding:"required"`
	Author *string `json:"author,omitempty"`
	ISBN   *string `json:"isbn,omitempty"`
}

// 蔵書レスポンス（author/isbn は未設定なら null のまま返す）
type BookResponse struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Author  *string `json:"author"`
	ISBN    *string `json:"isbn"`
	AddedAt string  `json:"added_at"`
}
