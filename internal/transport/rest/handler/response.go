package handler

import (
	"encoding/json"
	"log"
	"net/http"
)

// Screens a redirect can point back to
const (
	examsPath   = "/v1/exams"
	aiExamsPath = "/v1/ai-exams"
)

// RedirectResponse is the body of a 303 sent for a user-recoverable condition
type RedirectResponse struct {
	Redirect string `json:"redirect"`
	Flash    string `json:"flash,omitempty"`
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeRedirect sends the user back to a safe screen with a one-shot message
func writeRedirect(w http.ResponseWriter, location, flash string) {
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusSeeOther, RedirectResponse{Redirect: location, Flash: flash})
}

// writeInternal logs err and answers with a generic 500
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[HTTP] %s %s failed: %v", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
