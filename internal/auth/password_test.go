package auth

import (
	"strings"
	"testing"
)

// Tests use the minimum bcrypt cost: the default cost of 12 takes ~250ms
// per hash, which makes the suite crawl for no extra coverage.
func newTestPasswordService(t *testing.T) *PasswordService {
	t.Helper()
	return NewPasswordServiceForTest(4)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext password")
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := ps.Verify(hash, "wrong password"); err == nil {
		t.Error("Verify() should fail with the wrong password")
	}
}

func TestHash_DifferentEachTime(t *testing.T) {
	ps := newTestPasswordService(t)

	h1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt embeds a random salt, so two hashes of the same input differ.
	if h1 == h2 {
		t.Error("two hashes of the same password should not be equal")
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := newTestPasswordService(t)

	// bcrypt silently truncates past 72 bytes; we reject instead.
	long := strings.Repeat("x", 73)
	if _, err := ps.Hash(long); err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	ps := newTestPasswordService(t)

	if err := ps.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("Verify() should fail for a malformed hash")
	}
}
