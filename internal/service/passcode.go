package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type passcodeKind int

const (
	passcodeNone passcodeKind = iota
	passcodePlaintext
	passcodeHashed
)

// StoredPasscode is the stored quiz passcode as a tagged value: either a
// bcrypt hash (anything written by this server) or legacy plaintext
// (records imported from the old platform, kept verifiable until their
// owner next updates the quiz).
type StoredPasscode struct {
	kind  passcodeKind
	value string
}

func ParseStoredPasscode(stored string) StoredPasscode {
	if stored == "" {
		return StoredPasscode{kind: passcodeNone}
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, prefix) {
			return StoredPasscode{kind: passcodeHashed, value: stored}
		}
	}
	return StoredPasscode{kind: passcodePlaintext, value: stored}
}

func (p StoredPasscode) IsSet() bool {
	return p.kind != passcodeNone
}

func (p StoredPasscode) IsLegacy() bool {
	return p.kind == passcodePlaintext
}

// Verify checks the submitted passcode. Input is trimmed; an empty
// submission never verifies, even against an unset stored value.
func (p StoredPasscode) Verify(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	switch p.kind {
	case passcodeHashed:
		return bcrypt.CompareHashAndPassword([]byte(p.value), []byte(input)) == nil
	case passcodePlaintext:
		return p.value == input
	default:
		return false
	}
}

// HashPasscode hashes a new quiz passcode for storage.
func HashPasscode(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(plain)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
