package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"hopper/internal/types"
)

type recordingProvisioner struct {
	ids []types.ID
	err error
}

func (r *recordingProvisioner) Ensure(_ context.Context, id types.ID) error {
	r.ids = append(r.ids, id)
	return r.err
}

func TestProvisionEnsuresCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prov := &recordingProvisioner{err: errors.New("db down")}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxCallerUID, "user-1"); c.Next() })
	r.Use(Provision(prov, logger))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected request to continue, got %d", w.Code)
	}
	if len(prov.ids) != 1 || prov.ids[0] != "user-1" {
		t.Fatalf("unexpected ensure calls %v", prov.ids)
	}
}

func TestProvisionSkipsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prov := &recordingProvisioner{}
	r := gin.New()
	r.Use(Provision(prov, slog.New(slog.NewJSONHandler(io.Discard, nil))))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if len(prov.ids) != 0 {
		t.Fatalf("expected no ensure calls, got %v", prov.ids)
	}
}
