package claim_test

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/claim-management/internal/auth"
	"github.com/frahmantamala/claim-management/internal/claim"
	"github.com/frahmantamala/claim-management/internal/core/events"
)

var _ = Describe("Handler", func() {
	var (
		handler  *claim.Handler
		service  *claim.Service
		mockRepo *mockClaimRepository
		mockDocs *mockDocumentStore

		lecturerUser    *auth.User
		coordinatorUser *auth.User
	)

	authedRequest := func(r *http.Request, u *auth.User) *http.Request {
		return r.WithContext(auth.ContextWithUser(r.Context(), u))
	}

	withClaimID := func(r *http.Request, id int64) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", strconv.FormatInt(id, 10))
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	multipartClaim := func(hours, rate, fileName string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		Expect(mw.WriteField("hours_worked", hours)).To(Succeed())
		Expect(mw.WriteField("hourly_rate", rate)).To(Succeed())
		if fileName != "" {
			fw, err := mw.CreateFormFile("document", fileName)
			Expect(err).NotTo(HaveOccurred())
			_, err = fw.Write([]byte("file body"))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(mw.Close()).To(Succeed())
		return &buf, mw.FormDataContentType()
	}

	submitPending := func() *claim.Claim {
		dto := claim.CreateClaimDTO{HoursWorked: dec("100"), HourlyRate: dec("60")}
		actor := claim.Actor{ID: lecturerUser.ID, Permissions: lecturerUser.Permissions}
		created, err := service.SubmitClaim(context.Background(), actor, dto, nil, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Status).To(Equal(claim.StatusPending))
		return created
	}

	BeforeEach(func() {
		mockRepo = newMockClaimRepository()
		mockDocs = newMockDocumentStore()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = claim.NewService(mockRepo, mockDocs, events.NewEventBus(logger), logger)
		handler = claim.NewHandler(service, 0)

		lecturerUser = &auth.User{ID: 1, Email: "lecturer@university.edu", Permissions: []string{claim.PermSubmitClaims, claim.PermViewOwnClaims}}
		coordinatorUser = &auth.User{ID: 2, Email: "coordinator@university.edu", Permissions: []string{claim.PermApproveClaims, claim.PermRejectClaims, claim.PermViewAllClaims}}
	})

	Describe("CreateClaim", func() {
		It("should accept a valid submission with a document", func() {
			body, contentType := multipartClaim("10", "50", "timesheet.pdf")
			req := authedRequest(httptest.NewRequest(http.MethodPost, "/claims", body), lecturerUser)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.CreateClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("should return 400 for a disallowed file type", func() {
			body, contentType := multipartClaim("10", "50", "payload.exe")
			req := authedRequest(httptest.NewRequest(http.MethodPost, "/claims", body), lecturerUser)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.CreateClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_FILE_TYPE"))
			Expect(mockRepo.claims).To(BeEmpty())
		})

		It("should return 400 for negative hours", func() {
			body, contentType := multipartClaim("-5", "50", "")
			req := authedRequest(httptest.NewRequest(http.MethodPost, "/claims", body), lecturerUser)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.CreateClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("RejectClaim", func() {
		It("should return 400 when the reason is missing", func() {
			created := submitPending()

			req := httptest.NewRequest(http.MethodPatch, "/claims/1/reject", strings.NewReader(`{}`))
			req = withClaimID(authedRequest(req, coordinatorUser), created.ID)
			w := httptest.NewRecorder()

			handler.RejectClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("MISSING_REJECT_REASON"))
		})

		It("should return 400 when the reason is only whitespace", func() {
			created := submitPending()

			req := httptest.NewRequest(http.MethodPatch, "/claims/1/reject", strings.NewReader(`{"reason":"   "}`))
			req = withClaimID(authedRequest(req, coordinatorUser), created.ID)
			w := httptest.NewRecorder()

			handler.RejectClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 200 with the rejected claim for a valid reason", func() {
			created := submitPending()

			req := httptest.NewRequest(http.MethodPatch, "/claims/1/reject", strings.NewReader(`{"reason":"no timesheet"}`))
			req = withClaimID(authedRequest(req, coordinatorUser), created.ID)
			w := httptest.NewRecorder()

			handler.RejectClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("[Rejected: no timesheet]"))
		})
	})

	Describe("ApproveClaim", func() {
		It("should return 400 when the claim was already reviewed", func() {
			created := submitPending()
			actor := claim.Actor{ID: coordinatorUser.ID, Permissions: coordinatorUser.Permissions}
			_, err := service.ApproveClaim(context.Background(), actor, created.ID)
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPatch, "/claims/1/approve", nil)
			req = withClaimID(authedRequest(req, coordinatorUser), created.ID)
			w := httptest.NewRecorder()

			handler.ApproveClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 409 when the claim was modified concurrently", func() {
			created := submitPending()
			mockRepo.updateStatusError = claim.ErrClaimConflict

			req := httptest.NewRequest(http.MethodPatch, "/claims/1/approve", nil)
			req = withClaimID(authedRequest(req, coordinatorUser), created.ID)
			w := httptest.NewRecorder()

			handler.ApproveClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should return 404 for a missing claim", func() {
			req := httptest.NewRequest(http.MethodPatch, "/claims/99999/approve", nil)
			req = withClaimID(authedRequest(req, coordinatorUser), 99999)
			w := httptest.NewRecorder()

			handler.ApproveClaim(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
