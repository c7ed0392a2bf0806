package service

import (
	"testing"
	"time"

	"github.com/edufin/finboard-backend/internal/config"
	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/policy"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // minimum cost keeps the test fast
	}
	return NewAuthService(cfg, nil)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := testAuthService()

	hash, err := svc.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := svc.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testAuthService()

	user := &model.User{
		ID:       42,
		Username: "wang.teacher",
		Role:     policy.RoleTeacher,
		CampusID: "bj01",
		ClassIDs: []string{"C001", "C002"},
	}

	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "wang.teacher" {
		t.Errorf("identity = (%d, %s), want (42, wang.teacher)", claims.UserID, claims.Username)
	}
	if claims.Role != policy.RoleTeacher || claims.CampusID != "bj01" {
		t.Errorf("scope = (%s, %s), want (teacher, bj01)", claims.Role, claims.CampusID)
	}
	if len(claims.ClassIDs) != 2 || claims.ClassIDs[0] != "C001" {
		t.Errorf("classIds = %v, want [C001 C002]", claims.ClassIDs)
	}
	if claims.ID == "" {
		t.Error("claims must carry a JTI for revocation")
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Error("claims must carry a future expiry")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := testAuthService()

	token, err := svc.GenerateToken(&model.User{ID: 1, Username: "a", Role: policy.RolePrincipal})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Error("tampered signature accepted")
	}
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	other := NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour}, nil)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestClaimsSubject(t *testing.T) {
	c := &Claims{Role: policy.RoleVicePrincipal, CampusID: "sh01"}
	sub := c.Subject()
	if sub.Role != policy.RoleVicePrincipal || sub.CampusID != "sh01" {
		t.Errorf("subject = %+v", sub)
	}
}
