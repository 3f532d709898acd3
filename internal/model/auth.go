package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the reviewer login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued reviewer token
type LoginResponse struct {
	Token      string `json:"token"`
	ReviewerID string `json:"reviewerId"`
}

// ReviewerClaims are the JWT claims for an authenticated reviewer
type ReviewerClaims struct {
	ReviewerID string `json:"reviewerId"`
	jwt.RegisteredClaims
}
