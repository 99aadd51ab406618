package crypto

import (
	"errors"
	"strings"
	"testing"
)

// ============================================================
// Encrypt / Decrypt Tests
// ============================================================

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "access token", plaintext: "eyJhbGciOiJIUzI1NiJ9.payload.signature"},
		{name: "refresh token", plaintext: "rt_9f8e7d6c5b4a"},
		{name: "empty string", plaintext: ""},
		{name: "unicode", plaintext: "тема: тёмная"},
		{name: "long value", plaintext: strings.Repeat("x", 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := Encrypt(tt.plaintext, key)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			if ciphertext == tt.plaintext && tt.plaintext != "" {
				t.Error("ciphertext equals plaintext")
			}

			decrypted, err := Decrypt(ciphertext, key)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}

			if decrypted != tt.plaintext {
				t.Errorf("expected %q, got %q", tt.plaintext, decrypted)
			}
		})
	}
}

func TestEncryptUniqueNonce(t *testing.T) {
	key, _ := GenerateKey()

	// Одинаковый plaintext должен давать разный ciphertext (случайный nonce)
	first, err := Encrypt("access-token", key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := Encrypt("access-token", key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if first == second {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestEncryptInvalidKey(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{name: "nil key", key: nil},
		{name: "short key", key: []byte("too-short")},
		{name: "long key", key: make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encrypt("data", tt.key); !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("expected ErrInvalidKeyLength, got %v", err)
			}
			if _, err := Decrypt("data", tt.key); !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("expected ErrInvalidKeyLength, got %v", err)
			}
		})
	}
}

func TestDecryptErrors(t *testing.T) {
	key, _ := GenerateKey()

	tests := []struct {
		name       string
		ciphertext string
		expectErr  error
	}{
		{name: "not base64", ciphertext: "%%%not-base64%%%", expectErr: ErrInvalidCiphertext},
		{name: "too short", ciphertext: "YWJj", expectErr: ErrCiphertextTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decrypt(tt.ciphertext, key); !errors.Is(err, tt.expectErr) {
				t.Errorf("expected %v, got %v", tt.expectErr, err)
			}
		})
	}
}

func TestDecryptWrongKey(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()

	ciphertext, err := Encrypt("secret-token", key1)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// GCM должен обнаружить подмену ключа через authentication tag
	if _, err := Decrypt(ciphertext, key2); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	key, _ := GenerateKey()

	ciphertext, err := Encrypt("secret-token", key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Портим последний символ base64 строки
	tampered := ciphertext[:len(ciphertext)-2] + "A="
	if tampered == ciphertext {
		tampered = ciphertext[:len(ciphertext)-2] + "B="
	}

	if _, err := Decrypt(tampered, key); err == nil {
		t.Error("expected error for tampered ciphertext, got nil")
	}
}

func TestKeyStringHelpers(t *testing.T) {
	keyString := "0123456789abcdef0123456789abcdef" // 32 байта

	ciphertext, err := EncryptWithKeyString("refresh-token", keyString)
	if err != nil {
		t.Fatalf("EncryptWithKeyString failed: %v", err)
	}

	plaintext, err := DecryptWithKeyString(ciphertext, keyString)
	if err != nil {
		t.Fatalf("DecryptWithKeyString failed: %v", err)
	}

	if plaintext != "refresh-token" {
		t.Errorf("expected refresh-token, got %q", plaintext)
	}
}

func TestValidateKey(t *testing.T) {
	if err := ValidateKey(make([]byte, 32)); err != nil {
		t.Errorf("unexpected error for 32-byte key: %v", err)
	}
	if err := ValidateKey(make([]byte, 16)); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("expected ErrInvalidKeyLength, got %v", err)
	}
}
