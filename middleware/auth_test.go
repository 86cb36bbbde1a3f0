package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer abc", "abc"},
		{"Bearer ", ""},
		{"Basic dXNlcg==", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(c))
		})
	}
}

func TestAuthClient_GetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@example.com","first_name":"Ada","last_name":"Lovelace"}`))
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL + "/")

	user, err := client.GetMe(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &AuthUser{ID: "u1", Email: "a@example.com", FirstName: "Ada", LastName: "Lovelace"}, user)

	_, err = client.GetMe(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthClient_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAuthClient(srv.URL).GetMe(context.Background(), "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "502")
}
