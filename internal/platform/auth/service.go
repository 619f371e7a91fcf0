package auth

import (
	"context"
	"database/sql"
	"errors"

	platformdb "LIBRIS-backend/internal/platform/db"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ユーザ名不明とパスワード不一致を呼び出し側から区別できないよう、どちらもこれを返す
	ErrInvalidCredentials = errors.New("authentication failed")
	ErrOldPasswordWrong   = errors.New("old password incorrect")
	ErrNotFound           = errors.New("not found")
)

type Service struct {
	db    *sql.DB
	store AccountStore
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// Login は照合に成功したアカウントを返す。失敗理由は外に出さない。
func (s *Service) Login(ctx context.Context, username, password string) (*Account, error) {
	acct, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acct, nil
}

// ChangePassword は旧パスワードを再照合してからハッシュを差し替える。
// 照合〜更新を同一Txで行い、照合に失敗した場合は一切更新しない。
func (s *Service) ChangePassword(ctx context.Context, accountID int64, oldPassword, newPassword string) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		st := NewStore(tx)

		acct, err := st.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return ErrNotFound
		}

		if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(oldPassword)); err != nil {
			return ErrOldPasswordWrong
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		n, err := st.UpdatePassword(ctx, accountID, string(hash))
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// EnsureDefaultAdmin はアカウントが1件も無いときだけ初期管理者を作る。
// 初期パスワードは運用側で即時変更する前提の意図的なシード。
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	_, err = s.store.Create(ctx, &Account{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// List は管理者向けの一覧。ハッシュはDTO側で落とす。
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.store.List(ctx)
}
