package security_test

import (
	"testing"

	"github.com/clearlist/api/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if hash == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}

	if err := security.CheckPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("expected mismatched password to fail")
	}
}
