package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("secret")

func signToken(t *testing.T, secret []byte, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  role,
		"role": role,
		"exp":  exp.Unix(),
	})
	s, err := token.SignedString(secret)
	require.NoError(t, err)
	return s
}

func protected() http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Subject", GetSubjectFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(testSecret, nil)(Authorize("organizer")(next))
}

func TestAuthenticate(t *testing.T) {
	future := time.Now().Add(time.Hour)
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, []byte("other"), "organizer", future), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, "organizer", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signToken(t, testSecret, "spectator", future), http.StatusForbidden},
		{"organizer", "Bearer " + signToken(t, testSecret, "organizer", future), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tournaments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "organizer", rec.Header().Get("X-Subject"))
			}
		})
	}
}
