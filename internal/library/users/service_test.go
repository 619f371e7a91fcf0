package users

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

func strPtr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	res, err := svc.Create(ctx, UserRequest{
		Name:  "山田太郎",
		Email: strPtr("taro@example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.ID)

	got, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "山田太郎", got.Name)
	require.Equal(t, "taro@example.com", *got.Email)
	require.Nil(t, got.Phone)
}

func TestGetMissingReturnsNil(t *testing.T) {
	svc := NewService(newTestDB(t))

	// 存在しないIDはエラーでも404でもなく nil（ハンドラが {} を返す）
	got, err := svc.Get(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	res, err := svc.Create(ctx, UserRequest{
		Name:  "山田太郎",
		Email: strPtr("taro@example.com"),
		Phone: strPtr("090-0000-0000"),
	})
	require.NoError(t, err)

	// email/phone を省略した更新は NULL に置き換わる（全置換）
	n, err := svc.Update(ctx, res.ID, UserRequest{Name: "山田次郎"})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, "山田次郎", got.Name)
	require.Nil(t, got.Email)
	require.Nil(t, got.Phone)
}

func TestUpdateMissingRowIsZeroChanges(t *testing.T) {
	svc := NewService(newTestDB(t))

	n, err := svc.Update(context.Background(), 42, UserRequest{Name: "nobody"})
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestList(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, UserRequest{Name: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, UserRequest{Name: "b"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].Name)
	require.Equal(t, "b", list[1].Name)
}
