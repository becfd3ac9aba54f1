package session

import (
	"certprep/internal/cache"
	"certprep/internal/model"
	"errors"
	"log"
	"net/http"
)

var ErrNoSession = errors.New("request has no session")

// ErrSessionTooLarge means the state does not fit in a cookie browsers keep.
// Nothing is written and the previous session stays in place.
var ErrSessionTooLarge = errors.New("exam is too large for the session cookie")

// Store loads and saves the exam state of the requesting session.
// Load returns nil when the session holds no exam.
type Store interface {
	Load(r *http.Request) (*model.ExamState, error)
	Save(w http.ResponseWriter, r *http.Request, state *model.ExamState) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieStore keeps the exam state inside the signed session cookie itself
type CookieStore struct {
	signer *Signer
}

// NewCookieStore creates a store that round-trips state through the cookie
func NewCookieStore(signer *Signer) *CookieStore {
	return &CookieStore{signer: signer}
}

func (s *CookieStore) Load(r *http.Request) (*model.ExamState, error) {
	claims := ClaimsFrom(r.Context())
	if claims == nil {
		return nil, ErrNoSession
	}
	return claims.Exam, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, state *model.ExamState) error {
	claims := ClaimsFrom(r.Context())
	if claims == nil {
		return ErrNoSession
	}

	next := &model.SessionClaims{SessionID: claims.SessionID, Exam: state}
	value, err := s.signer.Issue(next)
	if err != nil {
		return err
	}
	if size := cookieSize(value); size > cookieSizeLimit {
		log.Printf("[Session] Refusing %d byte session cookie (limit %d); use a smaller exam or SESSION_BACKEND=redis", size, cookieSizeLimit)
		return ErrSessionTooLarge
	}
	setSessionCookie(w, s.signer, value)

	// Later reads in the same request see the new state
	claims.Exam = state
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	return s.Save(w, r, nil)
}

// RedisStore keeps only the session id in the cookie and the state in Redis
type RedisStore struct {
	cache cache.SessionCache
}

// NewRedisStore creates a store on top of the session cache
func NewRedisStore(c cache.SessionCache) *RedisStore {
	return &RedisStore{cache: c}
}

func (s *RedisStore) Load(r *http.Request) (*model.ExamState, error) {
	id := IDFrom(r.Context())
	if id == "" {
		return nil, ErrNoSession
	}
	return s.cache.Get(r.Context(), id)
}

func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, state *model.ExamState) error {
	id := IDFrom(r.Context())
	if id == "" {
		return ErrNoSession
	}
	if state == nil {
		return s.cache.Delete(r.Context(), id)
	}
	return s.cache.Set(r.Context(), id, state)
}

func (s *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	return s.Save(w, r, nil)
}
