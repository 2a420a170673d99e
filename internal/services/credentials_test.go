package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPlaintextVerifier_Verify(t *testing.T) {
	v := PlaintextVerifier{}

	assert.True(t, v.Verify("secret", "secret"))
	assert.False(t, v.Verify("secret", "Secret"))
	assert.False(t, v.Verify("secret", "secret "))
	assert.False(t, v.Verify("secret", ""))
	assert.True(t, v.Verify("", ""))
}

func TestBcryptVerifier_Verify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	v := BcryptVerifier{}

	assert.True(t, v.Verify(string(hash), "secret"))
	assert.False(t, v.Verify(string(hash), "wrong"))
	assert.False(t, v.Verify("secret", "secret"), "plaintext stored value is not a hash")
}

func TestNewCredentialVerifier(t *testing.T) {
	tests := []struct {
		name          string
		scheme        string
		expected      CredentialVerifier
		expectedError bool
	}{
		{name: "plaintext", scheme: PasswordSchemePlaintext, expected: PlaintextVerifier{}},
		{name: "default", scheme: "", expected: PlaintextVerifier{}},
		{name: "bcrypt", scheme: PasswordSchemeBcrypt, expected: BcryptVerifier{}},
		{name: "unknown", scheme: "md5", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewCredentialVerifier(tt.scheme)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, v)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}
