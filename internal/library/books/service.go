package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// ===== Error model (attendance/loans と同型) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store *Store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

// Create は蔵書を1冊登録する。added_at はサーバ側で採番。
func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalid("title is required")
	}

	var author, isbn sql.NullString
	if req.Author != nil && *req.Author != "" {
		author.String = *req.Author
		author.Valid = true
	}
	if req.ISBN != nil {
		// 全角入力（ＩＳＢＮの数字やハイフン）を半角に畳んでからUNIQUE判定に乗せる
		n := strings.TrimSpace(width.Fold.String(*req.ISBN))
		if n != "" {
			isbn.String = n
			isbn.Valid = true
		}
	}

	addedAt := s.clock.Now().UTC().Format(time.RFC3339)

	id, err := s.store.Insert(ctx, req.Title, author, isbn, addedAt)
	if err != nil {
		return nil, err
	}

	resp := buildBookResponse(Book{
		ID:      id,
		Title:   req.Title,
		Author:  author,
		ISBN:    isbn,
		AddedAt: addedAt,
	})
	return &resp, nil
}

// List は全件返す（ページングなし）
func (s *Service) List(ctx context.Context) ([]BookResponse, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]BookResponse, 0, len(rows))
	for _, b := range rows {
		res = append(res, buildBookResponse(b))
	}
	return res, nil
}

// Delete は消えた行数を返す。存在しないIDは 0 行でエラーにしない。
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalid("id must be a positive number")
	}
	return s.store.Delete(ctx, id)
}

func buildBookResponse(b Book) BookResponse {
	resp := BookResponse{
		ID:      b.ID,
		Title:   b.Title,
		AddedAt: b.AddedAt,
	}
	if b.Author.Valid {
		v := b.Author.String
		resp.Author = &v
	}
	if b.ISBN.Valid {
		v := b.ISBN.String
		resp.ISBN = &v
	}
	return resp
}
