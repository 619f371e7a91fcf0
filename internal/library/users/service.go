package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ===== Error model (books/loans と同型) =====

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

// ===== Service =====

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func (s *Service) Create(ctx context.Context, req UserRequest) (*UserResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalid("name is required")
	}

	email, phone := toNullable(req)

	id, err := s.store.Insert(ctx, req.Name, email, phone)
	if err != nil {
		return nil, err
	}
	resp := buildUserResponse(User{ID: id, Name: req.Name, Email: email, Phone: phone})
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, 0, len(rows))
	for _, u := range rows {
		res = append(res, buildUserResponse(u))
	}
	return res, nil
}

// Get は存在しないIDで (nil, nil) を返す。404にはしない（既存挙動）。
func (s *Service) Get(ctx context.Context, id int64) (*UserResponse, error) {
	if id <= 0 {
		return nil, ErrInvalid("id must be a positive number")
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	resp := buildUserResponse(*u)
	return &resp, nil
}

// Update は name/email/phone の全置換。更新行数を返す。
func (s *Service) Update(ctx context.Context, id int64, req UserRequest) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalid("id must be a positive number")
	}
	if strings.TrimSpace(req.Name) == "" {
		return 0, ErrInvalid("name is required")
	}

	email, phone := toNullable(req)
	return s.store.Update(ctx, id, req.Name, email, phone)
}

func toNullable(req UserRequest) (email, phone sql.NullString) {
	if req.Email != nil && *req.Email != "" {
		email.String = *req.Email
		email.Valid = true
	}
	if req.Phone != nil && *req.Phone != "" {
		phone.String = *req.Phone
		phone.Valid = true
	}
	return email, phone
}

func buildUserResponse(u User) UserResponse {
	resp := UserResponse{ID: u.ID, Name: u.Name}
	if u.Email.Valid {
		v := u.Email.String
		resp.Email = &v
	}
	if u.Phone.Valid {
		v := u.Phone.String
		resp.Phone = &v
	}
	return resp
}
