package utils

import (
	"testing"

	"github.com/agrichain/agrichaingo/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in plaintext")
	}

	if !CheckPasswordHash("secret123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.UserAuth{
		ID:    "user-farmer-1",
		Email: "farmer@test.com",
		Name:  "Alice Farmer",
		Role:  models.RoleFarmer,
	}

	access, refresh, err := GenerateTokens(user, "test-secret")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty tokens")
	}

	claims, err := ValidateToken(access, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims["id"] != "user-farmer-1" {
		t.Errorf("id claim = %v", claims["id"])
	}
	if claims["role"] != "FARMER" {
		t.Errorf("role claim = %v", claims["role"])
	}

	if _, err := ValidateToken(access, "other-secret"); err == nil {
		t.Error("token validated with wrong secret")
	}
	if _, err := ValidateToken("garbage", "test-secret"); err == nil {
		t.Error("garbage token validated")
	}
}
