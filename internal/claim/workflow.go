package claim

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Auto-classification thresholds applied when a claim is first submitted.
var (
	autoApproveMaxHours = decimal.NewFromInt(40)
	autoApproveMaxTotal = decimal.NewFromInt(5000)
	reviewHoursFloor    = decimal.NewFromInt(200)
	reviewRateFloor     = decimal.NewFromInt(2000)
)

// Action is a workflow transition requested by an actor.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// WorkflowEngine owns the claim lifecycle: it computes derived amounts,
// seeds the initial status from the approval rules, and executes the
// status transitions requested by reviewers. All operations are pure
// in-memory mutations of the passed claim; authorization is the caller's
// job (see CanPerform).
type WorkflowEngine struct{}

func NewWorkflowEngine() *WorkflowEngine {
	return &WorkflowEngine{}
}

// CalculateTotals recomputes the claim's total amount from hours and rate,
// rounded to 2 decimal places (half away from zero). Pure and idempotent.
func (e *WorkflowEngine) CalculateTotals(c *Claim) {
	c.TotalAmount = c.HoursWorked.Mul(c.HourlyRate).Round(2)
}

// Classify evaluates the approval rules over the claim and returns the
// status they seed. Rules are checked in fixed priority order; the first
// match wins because the ranges overlap:
//
//  1. hours <= 40 and total <= 5000      -> approved
//  2. hours > 200 or rate > 2000         -> under_review
//  3. otherwise                          -> pending
//
// This only seeds the status; a coordinator can still approve or reject
// the claim explicitly afterwards.
func (e *WorkflowEngine) Classify(c *Claim) Status {
	if c.HoursWorked.LessThanOrEqual(autoApproveMaxHours) && c.TotalAmount.LessThanOrEqual(autoApproveMaxTotal) {
		return StatusApproved
	}
	if c.HoursWorked.GreaterThan(reviewHoursFloor) || c.HourlyRate.GreaterThan(reviewRateFloor) {
		return StatusUnderReview
	}
	return StatusPending
}

// ProcessNewClaim runs the one true path by which a claim acquires a total
// amount and an initial status. It must be called exactly once, before the
// claim is first persisted. Calling it on a claim that has already been
// reviewed is an error.
func (e *WorkflowEngine) ProcessNewClaim(c *Claim) error {
	if c.HoursWorked.IsNegative() {
		return fmt.Errorf("hours worked must not be negative")
	}
	if c.HourlyRate.IsNegative() {
		return fmt.Errorf("hourly rate must not be negative")
	}
	if c.Status.IsTerminal() {
		return ErrAlreadyReviewed
	}

	e.CalculateTotals(c)
	c.Status = e.Classify(c)
	return nil
}

// CanTransition is the explicit transition table for reviewer actions.
func CanTransition(from Status, action Action) bool {
	switch action {
	case ActionApprove, ActionReject:
		return from == StatusPending || from == StatusUnderReview
	}
	return false
}

// Approve moves a pending or under-review claim to approved. No other
// field changes.
func (e *WorkflowEngine) Approve(c *Claim) error {
	if c.Status.IsTerminal() {
		return ErrAlreadyReviewed
	}
	if !CanTransition(c.Status, ActionApprove) {
		return ErrInvalidTransition
	}
	c.Status = StatusApproved
	return nil
}

// Reject moves a pending or under-review claim to rejected and appends the
// reason to the claim's notes. Prior notes are never truncated or replaced.
func (e *WorkflowEngine) Reject(c *Claim, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errMissingRejectReason
	}
	if c.Status.IsTerminal() {
		return ErrAlreadyReviewed
	}
	if !CanTransition(c.Status, ActionReject) {
		return ErrInvalidTransition
	}
	c.Status = StatusRejected
	c.Notes = c.Notes + fmt.Sprintf("\n[Rejected: %s]", reason)
	return nil
}
