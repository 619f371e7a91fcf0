package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	platformdb "LIBRIS-backend/internal/platform/db"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := platformdb.Connect(platformdb.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, platformdb.Migrate(conn))
	return conn
}

func TestEnsureDefaultAdminSeedsOnce(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	seeded, err := svc.EnsureDefaultAdmin(ctx, "admin", "changeme")
	require.NoError(t, err)
	require.True(t, seeded)

	// ちょうど1件、管理者権限付き
	accts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	require.Equal(t, "admin", accts[0].Username)
	require.True(t, accts[0].IsAdmin)

	// シードした認証情報でログインできる
	acct, err := svc.Login(ctx, "admin", "changeme")
	require.NoError(t, err)
	require.True(t, acct.IsAdmin)

	// 2回目の起動では作らない
	seeded, err = svc.EnsureDefaultAdmin(ctx, "admin", "changeme")
	require.NoError(t, err)
	require.False(t, seeded)

	accts, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.EnsureDefaultAdmin(ctx, "admin", "changeme")
	require.NoError(t, err)

	// ユーザ名不明とパスワード不一致で同じエラーを返す（列挙攻撃対策）
	_, errUnknown := svc.Login(ctx, "nobody", "changeme")
	_, errWrongPw := svc.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
}

func TestLoginIsCaseSensitive(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.EnsureDefaultAdmin(ctx, "admin", "changeme")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "Admin", "changeme")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.EnsureDefaultAdmin(ctx, "admin", "changeme")
	require.NoError(t, err)
	acct, err := svc.Login(ctx, "admin", "changeme")
	require.NoError(t, err)

	// 旧パスワードが違う場合はハッシュに触らない
	err = svc.ChangePassword(ctx, acct.ID, "wrong-old", "newpass")
	require.ErrorIs(t, err, ErrOldPasswordWrong)

	_, err = svc.Login(ctx, "admin", "changeme")
	require.NoError(t, err, "failed change must leave the stored hash unchanged")

	// 正しい旧パスワードなら差し替わる
	err = svc.ChangePassword(ctx, acct.ID, "changeme", "newpass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin", "newpass")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "admin", "changeme")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
