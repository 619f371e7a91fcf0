package books

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	platformdb "LIBRIS-backend/internal/platform/db"

	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(newTestDB(t))
	svc.clock = fixedClock{t: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	return svc
}

func strPtr(s string) *string { return &s }

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateBookRequest{
		Title:  "雪国",
		Author: strPtr("川端康成"),
		ISBN:   strPtr("978-4-10-100101-6"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.ID)
	require.Equal(t, "2025-04-01T09:00:00Z", res.AddedAt)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "雪国", list[0].Title)
	require.NotNil(t, list[0].ISBN)
	require.Equal(t, "978-4-10-100101-6", *list[0].ISBN)
}

func TestCreateWithoutOptionalFields(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Create(context.Background(), CreateBookRequest{Title: "坊っちゃん"})
	require.NoError(t, err)
	require.Nil(t, res.Author)
	require.Nil(t, res.ISBN)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateBookRequest{Title: "   "})
	require.Error(t, err)
	require.Equal(t, 400, ToHTTPStatus(err))
}

func TestDuplicateISBNConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBookRequest{Title: "a", ISBN: strPtr("9784101001012")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBookRequest{Title: "b", ISBN: strPtr("9784101001012")})
	require.Error(t, err)
	require.Equal(t, 409, ToHTTPStatus(err))

	// 重複は行を作らない
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestISBNWidthNormalization(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 全角入力は半角に畳まれる
	res, err := svc.Create(ctx, CreateBookRequest{Title: "a", ISBN: strPtr("９７８４１０１００１０１２")})
	require.NoError(t, err)
	require.Equal(t, "9784101001012", *res.ISBN)

	// 半角での再登録は同じキーとして衝突する
	_, err = svc.Create(ctx, CreateBookRequest{Title: "b", ISBN: strPtr("9784101001012")})
	require.Error(t, err)
	require.Equal(t, 409, ToHTTPStatus(err))
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateBookRequest{Title: "a"})
	require.NoError(t, err)

	n, err := svc.Delete(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// 存在しないIDは 0 行（エラーではない）
	n, err = svc.Delete(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}
