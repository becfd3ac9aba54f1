package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		origins string
		origin  string
		want    string
	}{
		{"*", "https://a.example", "*"},
		{"", "https://a.example", "*"},
		{"https://a.example, https://b.example", "https://b.example", "https://b.example"},
		{"https://a.example", "https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		CORS(tt.origins)(ok).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origins %q origin %q: allow = %q, want %q", tt.origins, tt.origin, got, tt.want)
		}
		// Browsers never send cookies to a wildcard origin
		wantCreds := ""
		if tt.want != "" && tt.want != "*" {
			wantCreds = "true"
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != wantCreds {
			t.Errorf("origins %q origin %q: credentials = %q, want %q", tt.origins, tt.origin, got, wantCreds)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight reached the handler")
	})).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}
