package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Recover turns a panic in a handler into a logged 500 response
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				var err error
				switch x := rec.(type) {
				case error:
					err = x
				case string:
					err = errors.New(x)
				default:
					err = fmt.Errorf("unknown panic: %v", x)
				}
				log.Printf("[HTTP] Recovered from panic in %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
