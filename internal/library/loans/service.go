package loans

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== Error model (books/users と同型) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string     { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) && api.Code == CodeInvalidArgument {
		return 400
	}
	return 500
}

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	store *Store
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// Checkout は貸出を1件登録する。
// book_id / user_id の実在チェックや「貸出中の本をもう一度貸す」ガードは
// 置かない。チェックを足すと外から見える挙動が変わるため、現行仕様のまま。
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*LoanResponse, error) {
	if req.BookID <= 0 {
		return nil, ErrInvalid("book_id must be > 0")
	}
	if req.UserID <= 0 {
		return nil, ErrInvalid("user_id must be > 0")
	}
	if req.DueDate == "" {
		return nil, ErrInvalid("due_date is required")
	}
	if !validDate(req.DueDate) {
		return nil, ErrInvalid("invalid due_date format, expected YYYY-MM-DD or RFC3339")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)

	loan := &Loan{
		LoanULID:     idStr,
		BookID:       req.BookID,
		UserID:       req.UserID,
		CheckoutDate: now,
		DueDate:      req.DueDate,
	}
	if err := s.store.InsertLoan(ctx, loan); err != nil {
		return nil, err
	}

	resp := buildLoanResponse(LoanWithNames{Loan: *loan})
	return &resp, nil
}

// Checkin は対象bookの開いている貸出をすべて閉じ、閉じた行数を返す。
// 開いている貸出が無いときは 0（冪等）。
func (s *Service) Checkin(ctx context.Context, req CheckinRequest) (int64, error) {
	if req.BookID <= 0 {
		return 0, ErrInvalid("book_id must be > 0")
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	return s.store.CloseOpenLoans(ctx, req.BookID, now)
}

// List は貸出履歴の全件を title / user_name 付きで返す
func (s *Service) List(ctx context.Context) ([]LoanResponse, error) {
	rows, err := s.store.ListWithNames(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]LoanResponse, 0, len(rows))
	for _, l := range rows {
		res = append(res, buildLoanResponse(l))
	}
	return res, nil
}

func buildLoanResponse(l LoanWithNames) LoanResponse {
	resp := LoanResponse{
		ID:           l.ID,
		LoanULID:     l.LoanULID,
		BookID:       l.BookID,
		UserID:       l.UserID,
		CheckoutDate: l.CheckoutDate,
		DueDate:      l.DueDate,
		Title:        l.Title,
		UserName:     l.UserName,
	}
	if l.ReturnDate.Valid {
		v := l.ReturnDate.String
		resp.ReturnDate = &v
		resp.Returned = true
	}
	return resp
}

// due_date は日付だけでも日時でも受ける
func validDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	return false
}
