package auth

import (
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const SessionCookieName = "libris_session"

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type TokenGen interface {
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

// ===== セッションストア =====

// Session はトークンに紐づくサーバ側の状態。
type Session struct {
	AccountID int64
	Username  string
	IsAdmin   bool
	ExpiresAt time.Time
}

// SessionStore はトークン → セッションの対応を持つ。
// 実装差し替え可（本体はメモリ、テストでも同じものを使う）。
type SessionStore interface {
	Put(token string, sess Session)
	Get(token string) (Session, bool)
	Delete(token string)
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	clock    Clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		clock:    realClock{},
	}
}

func (m *MemoryStore) Put(token string, sess Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = sess
}

// Get は期限切れをここで落とす。掃除は参照時に行えば十分な規模。
func (m *MemoryStore) Get(token string) (Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if m.clock.Now().After(sess.ExpiresAt) {
		m.Delete(token)
		return Session{}, false
	}
	return sess, true
}

func (m *MemoryStore) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// ===== マネージャ =====

// Manager はトークン発行とCookieの読み書きをまとめる。
type Manager struct {
	store  SessionStore
	maxAge time.Duration
	gen    TokenGen
	clock  Clock
}

func NewManager(store SessionStore, maxAge time.Duration) *Manager {
	return &Manager{
		store:  store,
		maxAge: maxAge,
		gen:    ulidGen{},
		clock:  realClock{},
	}
}

// Issue はログイン成功時に新しいセッションを張り、Cookieをセットする。
func (m *Manager) Issue(w http.ResponseWriter, acct *Account) (string, error) {
	token, err := m.gen.New()
	if err != nil {
		return "", err
	}

	m.store.Put(token, Session{
		AccountID: acct.ID,
		Username:  acct.Username,
		IsAdmin:   acct.IsAdmin,
		ExpiresAt: m.clock.Now().Add(m.maxAge),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// FromRequest はCookieからセッションを引く。無効・期限切れは (Session{}, false)。
func (m *Manager) FromRequest(r *http.Request) (Session, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	return m.store.Get(c.Value)
}

// Clear はサーバ側のセッションを破棄してCookieも失効させる。
// ストアから消えた時点でトークンは死ぬので、Cookieが残っていても無害。
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		m.store.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
