package claim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/claim-management/internal/claim"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func newClaim(hours, rate string) *claim.Claim {
	return &claim.Claim{
		LecturerID:  1,
		HoursWorked: dec(hours),
		HourlyRate:  dec(rate),
	}
}

var _ = Describe("WorkflowEngine", func() {
	var engine *claim.WorkflowEngine

	BeforeEach(func() {
		engine = claim.NewWorkflowEngine()
	})

	Describe("CalculateTotals", func() {
		It("should multiply hours by rate and round to 2 decimal places", func() {
			c := newClaim("10", "33.333")
			engine.CalculateTotals(c)
			Expect(c.TotalAmount.StringFixed(2)).To(Equal("333.33"))
		})

		It("should round half away from zero", func() {
			c := newClaim("1", "2.005")
			engine.CalculateTotals(c)
			Expect(c.TotalAmount.StringFixed(2)).To(Equal("2.01"))
		})

		It("should be idempotent", func() {
			c := newClaim("38.5", "125")
			engine.CalculateTotals(c)
			first := c.TotalAmount
			engine.CalculateTotals(c)
			Expect(c.TotalAmount.Equal(first)).To(BeTrue())
		})
	})

	Describe("ProcessNewClaim", func() {
		It("should auto-approve small claims", func() {
			c := newClaim("5", "5")
			Expect(engine.ProcessNewClaim(c)).To(Succeed())
			Expect(c.TotalAmount.StringFixed(2)).To(Equal("25.00"))
			Expect(c.Status).To(Equal(claim.StatusApproved))
		})

		It("should auto-approve exactly at both thresholds", func() {
			c := newClaim("40", "125")
			Expect(engine.ProcessNewClaim(c)).To(Succeed())
			Expect(c.TotalAmount.StringFixed(2)).To(Equal("5000.00"))
			Expect(c.Status).To(Equal(claim.StatusApproved))
		})

		It("should leave a claim just over the hours threshold pending", func() {
			c := newClaim("40.01", "125")
			Expect(engine.ProcessNewClaim(c)).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusPending))
		})

		It("should flag excessive hours for review", func() {
			c := newClaim("201", "10")
			Expect(engine.ProcessNewClaim(c)).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusUnderReview))
		})

		It("should flag excessive rates for review even with low hours", func() {
			c := newClaim("10", "2001")
			Expect(engine.ProcessNewClaim(c)).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusUnderReview))
		})

		It("should not flag values exactly at the review floors", func() {
			c := newClaim("200", "30")
			Expect(engine.ProcessNewClaim(c)).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusPending))
		})

		It("should reject negative hours", func() {
			c := newClaim("-1", "100")
			Expect(engine.ProcessNewClaim(c)).To(HaveOccurred())
		})

		It("should reject negative rates", func() {
			c := newClaim("10", "-0.01")
			Expect(engine.ProcessNewClaim(c)).To(HaveOccurred())
		})

		It("should refuse claims that were already reviewed", func() {
			c := newClaim("10", "100")
			c.Status = claim.StatusApproved
			Expect(engine.ProcessNewClaim(c)).To(MatchError(claim.ErrAlreadyReviewed))
		})
	})

	Describe("Approve", func() {
		It("should approve a pending claim", func() {
			c := newClaim("50", "120")
			c.Status = claim.StatusPending
			Expect(engine.Approve(c)).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusApproved))
		})

		It("should approve an under-review claim", func() {
			c := newClaim("250", "30")
			c.Status = claim.StatusUnderReview
			Expect(engine.Approve(c)).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusApproved))
		})

		It("should refuse to approve an already-rejected claim", func() {
			c := newClaim("50", "120")
			c.Status = claim.StatusRejected
			Expect(engine.Approve(c)).To(MatchError(claim.ErrAlreadyReviewed))
		})
	})

	Describe("Reject", func() {
		It("should reject and append the reason to the notes", func() {
			c := newClaim("50", "120")
			c.Status = claim.StatusPending
			c.Notes = "original notes"

			Expect(engine.Reject(c, "no timesheet attached")).To(Succeed())
			Expect(c.Status).To(Equal(claim.StatusRejected))
			Expect(c.Notes).To(Equal("original notes\n[Rejected: no timesheet attached]"))
		})

		It("should preserve earlier notes content verbatim", func() {
			c := newClaim("50", "120")
			c.Status = claim.StatusUnderReview
			c.Notes = "line one\nline two"

			Expect(engine.Reject(c, "rate too high")).To(Succeed())
			Expect(c.Notes).To(HavePrefix("line one\nline two"))
			Expect(c.Notes).To(HaveSuffix("[Rejected: rate too high]"))
		})

		It("should require a reason", func() {
			c := newClaim("50", "120")
			c.Status = claim.StatusPending
			Expect(engine.Reject(c, "  ")).To(HaveOccurred())
			Expect(c.Status).To(Equal(claim.StatusPending))
		})

		It("should refuse to reject twice", func() {
			c := newClaim("50", "120")
			c.Status = claim.StatusPending
			Expect(engine.Reject(c, "first reason")).To(Succeed())
			Expect(engine.Reject(c, "second reason")).To(MatchError(claim.ErrAlreadyReviewed))
			Expect(c.Notes).NotTo(ContainSubstring("second reason"))
		})
	})

	Describe("CanTransition", func() {
		It("should allow review actions only from pending and under_review", func() {
			Expect(claim.CanTransition(claim.StatusPending, claim.ActionApprove)).To(BeTrue())
			Expect(claim.CanTransition(claim.StatusUnderReview, claim.ActionReject)).To(BeTrue())
			Expect(claim.CanTransition(claim.StatusApproved, claim.ActionApprove)).To(BeFalse())
			Expect(claim.CanTransition(claim.StatusRejected, claim.ActionReject)).To(BeFalse())
		})
	})
})

var _ = Describe("Status", func() {
	It("should parse only the enumerated statuses", func() {
		for _, s := range []string{"pending", "under_review", "approved", "rejected"} {
			_, err := claim.ParseStatus(s)
			Expect(err).NotTo(HaveOccurred())
		}

		_, err := claim.ParseStatus("archived")
		Expect(err).To(HaveOccurred())
	})

	It("should treat approved and rejected as terminal", func() {
		Expect(claim.StatusApproved.IsTerminal()).To(BeTrue())
		Expect(claim.StatusRejected.IsTerminal()).To(BeTrue())
		Expect(claim.StatusPending.IsTerminal()).To(BeFalse())
		Expect(claim.StatusUnderReview.IsTerminal()).To(BeFalse())
	})
})

var _ = Describe("CanPerform", func() {
	It("should allow lecturers to submit", func() {
		Expect(claim.CanPerform([]string{claim.PermSubmitClaims}, "", claim.ActionSubmit)).To(BeTrue())
	})

	It("should deny submit without the permission", func() {
		Expect(claim.CanPerform([]string{claim.PermViewOwnClaims}, "", claim.ActionSubmit)).To(BeFalse())
	})

	It("should allow coordinators to approve reviewable claims", func() {
		perms := []string{claim.PermApproveClaims}
		Expect(claim.CanPerform(perms, claim.StatusPending, claim.ActionApprove)).To(BeTrue())
		Expect(claim.CanPerform(perms, claim.StatusUnderReview, claim.ActionApprove)).To(BeTrue())
	})

	It("should deny approval of terminal claims even with the permission", func() {
		perms := []string{claim.PermApproveClaims}
		Expect(claim.CanPerform(perms, claim.StatusApproved, claim.ActionApprove)).To(BeFalse())
	})

	It("should let admin perform any action", func() {
		perms := []string{claim.PermAdmin}
		Expect(claim.CanPerform(perms, "", claim.ActionSubmit)).To(BeTrue())
		Expect(claim.CanPerform(perms, claim.StatusPending, claim.ActionApprove)).To(BeTrue())
		Expect(claim.CanPerform(perms, claim.StatusUnderReview, claim.ActionReject)).To(BeTrue())
	})

	It("should deny reviewers without the matching permission", func() {
		Expect(claim.CanPerform([]string{claim.PermApproveClaims}, claim.StatusPending, claim.ActionReject)).To(BeFalse())
	})
})
