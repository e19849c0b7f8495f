package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/claim-management/internal/transport/middleware"
	"github.com/frahmantamala/claim-management/pkg/logger"
)

var _ = Describe("RequestID", func() {
	var (
		seenCtx context.Context
		wrapped http.Handler
	)

	BeforeEach(func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenCtx = r.Context()
			w.WriteHeader(http.StatusOK)
		})
		wrapped = middleware.RequestID(next)
	})

	It("should reuse the caller's trace id and echo it back", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "trace-123")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		Expect(w.Header().Get("X-Trace-ID")).To(Equal("trace-123"))
	})

	It("should generate a trace id when none is supplied", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		Expect(w.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should attach a context logger downstream handlers can use", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		// A logger scoped with the trace id is stored in the context,
		// distinct from the process-wide fallback.
		Expect(logger.From(seenCtx)).NotTo(BeIdenticalTo(logger.From(context.Background())))
	})
})
