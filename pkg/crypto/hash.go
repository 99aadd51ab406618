package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Ошибки хеширования
var (
	ErrEmptyPasscode    = errors.New("passcode cannot be empty")
	ErrPasscodeMismatch = errors.New("passcode does not match hash")
	ErrInvalidHash      = errors.New("invalid passcode hash format")
	ErrPasscodeTooLong  = errors.New("passcode exceeds maximum length of 72 bytes")
)

// DefaultCost - стоимость хеширования по умолчанию.
// Passcode проверяется один раз при старте приложения,
// поэтому высокая стоимость не мешает.
const DefaultCost = 12

// MaxPasscodeLength - ограничение bcrypt (72 байта)
const MaxPasscodeLength = 72

// HashPasscode хеширует локальный passcode приложения с использованием bcrypt.
//
// Passcode - опциональная защита локального хранилища токенов: в sqlite
// хранится только хеш, сам passcode не сохраняется нигде.
func HashPasscode(passcode string) (string, error) {
	if passcode == "" {
		return "", ErrEmptyPasscode
	}

	if len(passcode) > MaxPasscodeLength {
		return "", ErrPasscodeTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// HashPasscodeWithCost хеширует passcode с указанной стоимостью.
// cost ограничивается диапазоном bcrypt.MinCost..bcrypt.MaxCost.
func HashPasscodeWithCost(passcode string, cost int) (string, error) {
	if passcode == "" {
		return "", ErrEmptyPasscode
	}

	if len(passcode) > MaxPasscodeLength {
		return "", ErrPasscodeTooLong
	}

	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPasscode сравнивает passcode с хешем.
// Возвращает nil при совпадении, ErrPasscodeMismatch при несовпадении.
func CheckPasscode(passcode, hash string) error {
	if passcode == "" {
		return ErrEmptyPasscode
	}
	if hash == "" {
		return ErrInvalidHash
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasscodeMismatch
		}
		return ErrInvalidHash
	}

	return nil
}

// IsHashValid проверяет, что строка похожа на валидный bcrypt хеш
func IsHashValid(hash string) bool {
	_, err := bcrypt.Cost([]byte(hash))
	return err == nil
}
