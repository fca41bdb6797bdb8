package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWT_EmptySecret(t *testing.T) {
	_, err := NewJWT("", "rentalapi", time.Hour)
	assert.Error(t, err)
}

func TestJWT_IssueVerify(t *testing.T) {
	j, err := NewJWT("s3cret", "rentalapi", 8*time.Hour)
	require.NoError(t, err)

	tok, err := j.Issue(Principal{UserID: 7, Email: "ana@example.com", Role: "admin"})
	require.NoError(t, err)

	p, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 7, Email: "ana@example.com", Role: "admin"}, p)
}

func TestJWT_Verify(t *testing.T) {
	j, _ := NewJWT("s3cret", "rentalapi", time.Hour)
	other, _ := NewJWT("different", "rentalapi", time.Hour)

	foreign, err := other.Issue(Principal{UserID: 1})
	require.NoError(t, err)

	expiredSigner, _ := NewJWT("s3cret", "rentalapi", time.Hour)
	expiredSigner.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSigner.Issue(Principal{UserID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"alg none", none},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
