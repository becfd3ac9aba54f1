package session

import (
	"certprep/internal/model"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// roundTrip runs handler behind Middleware, sending cookie if non-nil
func roundTrip(t *testing.T, signer *Signer, cookie *http.Cookie, handler http.HandlerFunc) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	Middleware(signer)(handler).ServeHTTP(rec, req)

	var out *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			if out != nil {
				t.Errorf("response carries more than one session cookie")
			}
			out = c
		}
	}
	return out
}

func TestMiddlewareStartsSession(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	var sid string
	cookie := roundTrip(t, signer, nil, func(w http.ResponseWriter, r *http.Request) {
		sid = IDFrom(r.Context())
	})
	if sid == "" {
		t.Fatal("no session id on context")
	}
	if cookie == nil {
		t.Fatal("new session did not set a cookie")
	}

	var again string
	if c := roundTrip(t, signer, cookie, func(w http.ResponseWriter, r *http.Request) {
		again = IDFrom(r.Context())
	}); c != nil {
		t.Errorf("existing session should not be re-issued")
	}
	if again != sid {
		t.Errorf("session id changed: %q -> %q", sid, again)
	}
}

func TestMiddlewareRejectsTamperedCookie(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	forged, _ := NewSigner("other-secret", time.Hour).Issue(&model.SessionClaims{SessionID: "forged"})

	var sid string
	roundTrip(t, signer, &http.Cookie{Name: CookieName, Value: forged}, func(w http.ResponseWriter, r *http.Request) {
		sid = IDFrom(r.Context())
	})
	if sid == "" || sid == "forged" {
		t.Errorf("forged cookie was accepted, sid=%q", sid)
	}
}

func TestCookieStoreRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	store := NewCookieStore(signer)

	state := model.NewExamState(model.ModeStored, 3)
	state.Token = "v1.abc"
	state.Current = 1
	state.Score = 1

	cookie := roundTrip(t, signer, nil, func(w http.ResponseWriter, r *http.Request) {
		if err := store.Save(w, r, state); err != nil {
			t.Fatalf("Save: %v", err)
		}
	})
	if cookie == nil {
		t.Fatal("Save did not write a cookie")
	}

	var loaded *model.ExamState
	roundTrip(t, signer, cookie, func(w http.ResponseWriter, r *http.Request) {
		loaded, _ = store.Load(r)
	})
	if loaded == nil || loaded.Token != "v1.abc" || loaded.Current != 1 || loaded.Score != 1 || loaded.Total != 3 {
		t.Fatalf("state did not survive the cookie: %+v", loaded)
	}

	cleared := roundTrip(t, signer, cookie, func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(w, r); err != nil {
			t.Fatalf("Clear: %v", err)
		}
	})
	roundTrip(t, signer, cleared, func(w http.ResponseWriter, r *http.Request) {
		loaded, _ = store.Load(r)
	})
	if loaded != nil {
		t.Errorf("state present after Clear: %+v", loaded)
	}
}

// bulkyAIState is a realistic 10-question generated exam
func bulkyAIState() *model.ExamState {
	state := model.NewExamState(model.ModeAI, 10)
	for i := 0; i < 10; i++ {
		state.Questions = append(state.Questions, model.Question{
			ID:            int64(i + 1),
			Domain:        "Cloud Security",
			Question:      strings.Repeat("q", 150),
			OptionA:       strings.Repeat("a", 50),
			OptionB:       strings.Repeat("b", 50),
			OptionC:       strings.Repeat("c", 50),
			OptionD:       strings.Repeat("d", 50),
			CorrectOption: "A",
			Explanation:   strings.Repeat("e", 150),
		})
	}
	return state
}

func TestCookieStoreRejectsOversizedState(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	store := NewCookieStore(signer)

	small := model.NewExamState(model.ModeStored, 3)
	small.Token = "v1.abc"
	cookie := roundTrip(t, signer, nil, func(w http.ResponseWriter, r *http.Request) {
		if err := store.Save(w, r, small); err != nil {
			t.Fatalf("Save: %v", err)
		}
	})

	written := roundTrip(t, signer, cookie, func(w http.ResponseWriter, r *http.Request) {
		if err := store.Save(w, r, bulkyAIState()); !errors.Is(err, ErrSessionTooLarge) {
			t.Errorf("Save err = %v, want ErrSessionTooLarge", err)
		}
		if loaded, _ := store.Load(r); loaded == nil || loaded.Mode != model.ModeStored {
			t.Errorf("request state replaced after a refused save: %+v", loaded)
		}
	})
	if written != nil {
		t.Errorf("oversized save wrote a %d byte cookie", len(written.Value))
	}
}

type memoryCache struct {
	states map[string]*model.ExamState
}

func (m *memoryCache) Set(_ context.Context, id string, s *model.ExamState) error {
	m.states[id] = s
	return nil
}

func (m *memoryCache) Get(_ context.Context, id string) (*model.ExamState, error) {
	return m.states[id], nil
}

func (m *memoryCache) Delete(_ context.Context, id string) error {
	delete(m.states, id)
	return nil
}

func TestRedisStoreUsesSessionID(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	mc := &memoryCache{states: map[string]*model.ExamState{}}
	store := NewRedisStore(mc)

	var sid string
	cookie := roundTrip(t, signer, nil, func(w http.ResponseWriter, r *http.Request) {
		sid = IDFrom(r.Context())
		if err := store.Save(w, r, model.NewExamState(model.ModeStored, 2)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	})
	if mc.states[sid] == nil {
		t.Fatalf("state not stored under session %q", sid)
	}

	roundTrip(t, signer, cookie, func(w http.ResponseWriter, r *http.Request) {
		state, err := store.Load(r)
		if err != nil || state == nil || state.Total != 2 {
			t.Errorf("Load = %+v, %v", state, err)
		}
		if err := store.Clear(w, r); err != nil {
			t.Errorf("Clear: %v", err)
		}
	})
	if _, ok := mc.states[sid]; ok {
		t.Errorf("Clear left state in the cache")
	}
}
