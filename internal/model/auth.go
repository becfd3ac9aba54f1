package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims carried in the session cookie
type SessionClaims struct {
	SessionID string     `json:"sid"`
	Exam      *ExamState `json:"exam,omitempty"` // Only set by the cookie session backend
	jwt.RegisteredClaims
}
