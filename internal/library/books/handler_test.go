package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	api := r.Group("/api")
	RegisterRoutes(api, newTestService(t))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateListDeleteFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/books", `{"title":"雪国","author":"川端康成","isbn":"978-4-10-100101-6"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"id":1}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "雪国", list[0].Title)

	w = doJSON(r, http.MethodDelete, "/api/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"changes":1}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/api/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"changes":0}`, w.Body.String())
}

// isbn重複は500ではなく409で、メッセージを {"error": ...} に載せて返す
func TestDuplicateISBNIs409(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/books", `{"title":"a","isbn":"9784101001012"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/books", `{"title":"b","isbn":"9784101001012"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.JSONEq(t, `{"error":"isbn already exists"}`, w.Body.String())
}

func TestCreateMissingTitleIs400(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/books", `{"author":"nobody"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
