package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/glamify/pkg/reqid"
)

func serve(header string) (seen string, echoed string) {
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(reqid.Header)
}

func TestMiddlewareGeneratesUUID(t *testing.T) {
	seen, echoed := serve("")
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, echoed)
}

func TestMiddlewareHonoursInbound(t *testing.T) {
	seen, echoed := serve("gateway-42")
	assert.Equal(t, "gateway-42", seen)
	assert.Equal(t, "gateway-42", echoed)
}

func TestMiddlewareReplacesOversizedInbound(t *testing.T) {
	seen, _ := serve(strings.Repeat("x", 500))
	assert.NotEqual(t, strings.Repeat("x", 500), seen)
}
