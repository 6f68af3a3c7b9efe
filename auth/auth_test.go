package auth

import (
	"testing"
	"time"

	"workspace-chat/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	req := require.New(t)
	password := "Sup3rSecret!Password"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.NotContains(hash, password)

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_InvalidFormat(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-an-argon2-hash")
	req.Error(err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)
	sessionID := uuid.New()

	token, err := GenerateToken(sessionID, time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	parsed, err := ValidateToken(token)
	req.NoError(err)
	req.Equal(sessionID, parsed)
}

func TestValidateToken_Rejections(t *testing.T) {
	req := require.New(t)

	_, err := ValidateToken("not.a.token")
	req.Error(err)

	expired, err := GenerateToken(uuid.New(), -time.Minute)
	req.NoError(err)
	_, err = ValidateToken(expired)
	req.Error(err)
}

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name    string
		request RegisterRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "Sup3rSecret!Pass"},
		},
		{
			name:    "invalid email",
			request: RegisterRequest{Email: "not-an-email", Name: "Alice", Password: "Sup3rSecret!Pass"},
			wantErr: true,
		},
		{
			name:    "missing name",
			request: RegisterRequest{Email: "alice@example.com", Password: "Sup3rSecret!Pass"},
			wantErr: true,
		},
		{
			name:    "too short",
			request: RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "Ab1!"},
			wantErr: true,
		},
		{
			name:    "long but not complex",
			request: RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "alllowercasepassword"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := ValidateRegister(tt.request)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestIsPasswordComplex(t *testing.T) {
	req := require.New(t)

	req.True(isPasswordComplex("Sup3rSecret!"))
	req.False(isPasswordComplex("nouppercase1!"))
	req.False(isPasswordComplex("NOLOWERCASE1!"))
	req.False(isPasswordComplex("NoNumberHere!"))
	req.False(isPasswordComplex("NoSpecial123"))

	req.ErrorIs(ValidateRegister(RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "nouppercasepass1!",
	}), errors.ErrInvalidPassword)
}
