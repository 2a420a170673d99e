package services

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Supported password schemes
const (
	PasswordSchemePlaintext = "plaintext"
	PasswordSchemeBcrypt    = "bcrypt"
)

// CredentialVerifier checks a supplied password against the stored one
type CredentialVerifier interface {
	// Method Verify reports whether "supplied" matches the "stored" password value.
	Verify(stored, supplied string) bool
}

// PlaintextVerifier compares passwords verbatim.
//
// Accounts are currently stored with plaintext passwords.
type PlaintextVerifier struct{}

// Verify compares stored and supplied byte for byte in constant time
func (PlaintextVerifier) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// BcryptVerifier treats the stored password as a bcrypt hash
type BcryptVerifier struct{}

// Verify reports whether supplied hashes to the stored bcrypt hash
func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// NewCredentialVerifier returns the verifier for a configured password scheme
func NewCredentialVerifier(scheme string) (CredentialVerifier, error) {
	switch scheme {
	case PasswordSchemePlaintext, "":
		return PlaintextVerifier{}, nil
	case PasswordSchemeBcrypt:
		return BcryptVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme: %s, must be '%s' or '%s'", scheme, PasswordSchemePlaintext, PasswordSchemeBcrypt)
	}
}
