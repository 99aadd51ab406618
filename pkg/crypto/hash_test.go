package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// Passcode Hash Tests
// ============================================================

func TestHashPasscode(t *testing.T) {
	tests := []struct {
		name      string
		passcode  string
		expectErr error
	}{
		{name: "valid passcode", passcode: "my-local-passcode"},
		{name: "empty passcode", passcode: "", expectErr: ErrEmptyPasscode},
		{name: "too long", passcode: strings.Repeat("a", 73), expectErr: ErrPasscodeTooLong},
		{name: "max length", passcode: strings.Repeat("a", 72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPasscode(tt.passcode)

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hash == tt.passcode {
				t.Error("hash equals passcode")
			}
			if !IsHashValid(hash) {
				t.Error("produced hash is not a valid bcrypt hash")
			}
		})
	}
}

func TestHashPasscodeUniqueSalt(t *testing.T) {
	first, err := HashPasscode("same-passcode")
	if err != nil {
		t.Fatalf("HashPasscode failed: %v", err)
	}
	second, err := HashPasscode("same-passcode")
	if err != nil {
		t.Fatalf("HashPasscode failed: %v", err)
	}

	// bcrypt генерирует salt на каждый вызов
	if first == second {
		t.Error("two hashes of the same passcode are identical")
	}
}

func TestHashPasscodeWithCost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "below min clamps to min", cost: 1, want: bcrypt.MinCost},
		{name: "valid cost", cost: 10, want: 10},
		{name: "above max clamps to max", cost: 99, want: bcrypt.MaxCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want > 14 {
				t.Skip("max cost hash is too slow for unit tests")
			}

			hash, err := HashPasscodeWithCost("passcode", tt.cost)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			cost, err := bcrypt.Cost([]byte(hash))
			if err != nil {
				t.Fatalf("failed to read cost: %v", err)
			}
			if cost != tt.want {
				t.Errorf("expected cost %d, got %d", tt.want, cost)
			}
		})
	}
}

func TestCheckPasscode(t *testing.T) {
	hash, err := HashPasscodeWithCost("correct-passcode", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasscodeWithCost failed: %v", err)
	}

	tests := []struct {
		name      string
		passcode  string
		hash      string
		expectErr error
	}{
		{name: "match", passcode: "correct-passcode", hash: hash},
		{name: "mismatch", passcode: "wrong-passcode", hash: hash, expectErr: ErrPasscodeMismatch},
		{name: "empty passcode", passcode: "", hash: hash, expectErr: ErrEmptyPasscode},
		{name: "empty hash", passcode: "correct-passcode", hash: "", expectErr: ErrInvalidHash},
		{name: "garbage hash", passcode: "correct-passcode", hash: "not-a-hash", expectErr: ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasscode(tt.passcode, tt.hash)

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsHashValid(t *testing.T) {
	hash, _ := HashPasscodeWithCost("passcode", bcrypt.MinCost)

	if !IsHashValid(hash) {
		t.Error("expected valid hash")
	}
	if IsHashValid("plain-text") {
		t.Error("expected invalid hash for plain text")
	}
	if IsHashValid("") {
		t.Error("expected invalid hash for empty string")
	}
}
