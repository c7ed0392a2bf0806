package model

import "github.com/edufin/finboard-backend/internal/policy"

// User is a dashboard account. CampusID is set for vice principals and
// homeroom teachers; ClassIDs only for homeroom teachers.
type User struct {
	ID           int         `json:"id"`
	Username     string      `json:"username"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"`
	Role         policy.Role `json:"role"`
	CampusID     string      `json:"campusId,omitempty"`
	CampusName   string      `json:"campusName,omitempty"`
	ClassIDs     []string    `json:"classIds,omitempty"`
}

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginData is the successful login payload.
type LoginData struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
