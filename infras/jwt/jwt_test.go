package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unires/config"
	"unires/infras/jwt"
)

const secret = "test-secret"

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret

	return jwt.New(cfg)
}

func TestValidateToken(t *testing.T) {
	now := time.Now()

	valid, err := jwt.Sign(secret, "u-1", "u1@campus.edu", "user", now, time.Hour)
	require.NoError(t, err)

	expired, err := jwt.Sign(secret, "u-1", "u1@campus.edu", "user", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	foreign, err := jwt.Sign("other-secret", "u-1", "u1@campus.edu", "user", now, time.Hour)
	require.NoError(t, err)

	noUser, err := jwt.Sign(secret, "", "u1@campus.edu", "user", now, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, wantErr: jwt.ErrExpiredToken},
		{name: "wrong secret", token: foreign, wantErr: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-token", wantErr: jwt.ErrInvalidToken},
		{name: "missing user", token: noUser, wantErr: jwt.ErrInvalidClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := newService().ValidateToken(tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u-1", claims.UserID)
			assert.Equal(t, "user", claims.Role)
			assert.NotEmpty(t, claims.TokenID)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, jwt.ErrMissingToken)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.ErrorIs(t, err, jwt.ErrBadScheme)
}
