package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerify(t *testing.T) {
	now := time.Now()
	v := NewVerifier(testSecret, func() time.Time { return now })

	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           "user-1",
		"email":         "ana@example.com",
		"exp":           now.Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{"name": "Ana"},
		"app_metadata":  map[string]interface{}{"plan": "premium"},
	})

	u, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, &User{ID: "user-1", Email: "ana@example.com", Name: "Ana", Plan: "premium"}, u)
}

func TestVerifyDefaults(t *testing.T) {
	v := NewVerifier(testSecret, nil)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-2",
		"email": "joao.silva@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	u, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "joao.silva", u.Name)
	require.Equal(t, "free", u.Plan)
}

func TestVerifyRejects(t *testing.T) {
	now := time.Now()
	v := NewVerifier(testSecret, func() time.Time { return now })

	cases := map[string]string{
		"wrong secret": signToken(t, "other", jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u", "exp": now.Add(time.Hour).Unix(),
		}),
		"expired": signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u", "exp": now.Add(-time.Minute).Unix(),
		}),
		"no exp": signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u",
		}),
		"no subject": signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": now.Add(time.Hour).Unix(),
		}),
		"wrong alg": signToken(t, testSecret, jwt.SigningMethodHS512, jwt.MapClaims{
			"sub": "u", "exp": now.Add(time.Hour).Unix(),
		}),
		"garbage": "not-a-jwt",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := v.Verify("  ")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("bearer  abc "))
	require.Empty(t, BearerToken("Basic abc"))
	require.Empty(t, BearerToken(""))
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	require.False(t, ok)

	ctx := WithUser(context.Background(), &User{ID: "u"})
	u, ok := UserFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "u", u.ID)
}
