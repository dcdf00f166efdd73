package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	registered map[string]bool
	err        error
}

func (f *fakeResolver) Exists(_ context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}

	return f.registered[name], nil
}

func guardedRouter(resolver ParticipantResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded", NewIdentityGuard(resolver).RequireParticipant(), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(IdentityKey))
	})

	return router
}

func TestRequireParticipant(t *testing.T) {
	resolver := &fakeResolver{registered: map[string]bool{"Maria": true}}

	tests := []struct {
		name       string
		userHeader string
		wantStatus int
		wantBody   string
	}{
		{"registered participant passes", "Maria", http.StatusOK, "Maria"},
		{"header is sanitized before lookup", "  <b>Maria</b> ", http.StatusOK, "Maria"},
		{"missing header", "", http.StatusUnprocessableEntity, ""},
		{"name too short", "ab", http.StatusUnprocessableEntity, ""},
		{"markup-only name", "<script>boo</script>", http.StatusUnprocessableEntity, ""},
		{"unregistered name", "Joao123", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := guardedRouter(resolver)

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.userHeader != "" {
				req.Header.Set("user", tt.userHeader)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				require.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireParticipant_StoreError(t *testing.T) {
	router := guardedRouter(&fakeResolver{err: errors.New("connection reset")})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("user", "Maria")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
