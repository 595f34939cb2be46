package services

import (
	"fmt"
	"time"

	dbm "ococalli/internal/models/db_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/pkg/utils"
)

type Bucket string

// The one bucket table used by every list, export and report.
const (
	BucketFresh    Bucket = "fresh"    // more than 30 days
	BucketWarning  Bucket = "warning"  // 15 to 30
	BucketCaution  Bucket = "caution"  // 5 to 14
	BucketCritical Bucket = "critical" // 0 to 4
	BucketExpired  Bucket = "expired"  // negative
	BucketUnknown  Bucket = "unknown"  // no end date
)

const ExpiredLabel = "expired"

func BucketFor(daysRemaining int) Bucket {
	switch {
	case daysRemaining > 30:
		return BucketFresh
	case daysRemaining >= 15:
		return BucketWarning
	case daysRemaining >= 5:
		return BucketCaution
	case daysRemaining >= 0:
		return BucketCritical
	default:
		return BucketExpired
	}
}

// ExpiringSoon is true for the buckets that call for a renewal reminder.
func (b Bucket) ExpiringSoon() bool {
	return b == BucketWarning || b == BucketCaution || b == BucketCritical
}

// RenewalWindow is the outcome of applying one renewal to a customer.
type RenewalWindow struct {
	PreviousEndDate *time.Time
	// WindowStart is where the added months are counted from.
	WindowStart time.Time
	// StartDate is the value persisted on the customer; it only moves when
	// the membership was not running.
	StartDate time.Time
	EndDate   time.Time
	Status    dbm.CustomerStatus
	Extended  bool
}

// ComputeRenewal extends a running membership from its current end date and
// restarts any other membership from now.
func ComputeRenewal(customer dbm.Customer, plan dbm.MembershipPlan, now time.Time) RenewalWindow {
	w := RenewalWindow{
		PreviousEndDate: customer.EndDate,
		WindowStart:     now,
		StartDate:       now,
		Status:          dbm.StatusActive,
	}

	running := customer.Status == dbm.StatusActive && customer.EndDate != nil
	if running && customer.EndDate.After(now) {
		w.WindowStart = *customer.EndDate
		w.Extended = true
	}
	if running && customer.StartDate != nil {
		w.StartDate = *customer.StartDate
	}

	w.EndDate = utils.AddMonths(w.WindowStart, plan.TotalMonths())
	return w
}

// EffectiveEndDate returns the stored end date, or start + plan months when
// only the start is known. derived reports the second case.
func EffectiveEndDate(start, end *time.Time, plan *dbm.MembershipPlan) (effective *time.Time, derived bool) {
	if end != nil {
		return end, false
	}
	if start == nil || plan == nil {
		return nil, false
	}
	e := utils.AddMonths(*start, plan.TotalMonths())
	return &e, true
}

// DeriveMembershipStatus computes the read-side view of a membership.
func DeriveMembershipStatus(start, end *time.Time, plan *dbm.MembershipPlan, now time.Time) resp.MembershipView {
	effective, derived := EffectiveEndDate(start, end, plan)
	if effective == nil {
		return resp.MembershipView{Bucket: string(BucketUnknown), Label: "-"}
	}

	days := utils.DaysUntil(*effective, now)
	view := resp.MembershipView{
		EndDate:        effective,
		EndDateDerived: derived,
		Bucket:         string(BucketFor(days)),
	}
	if days < 0 {
		view.Label = ExpiredLabel
		return view
	}
	view.DaysRemaining = &days
	if days == 1 {
		view.Label = "1 day"
	} else {
		view.Label = fmt.Sprintf("%d days", days)
	}
	return view
}
