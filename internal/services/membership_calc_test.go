package services

import (
	"testing"
	"time"

	dbm "ococalli/internal/models/db_models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestComputeRenewalStartsFromNowWhenNotRunning(t *testing.T) {
	now := day(2024, 1, 10)
	plan := dbm.MembershipPlan{DurationMonths: 1, FreeMonths: 1}

	w := ComputeRenewal(dbm.Customer{Status: dbm.StatusPending}, plan, now)

	if !w.EndDate.Equal(day(2024, 3, 10)) {
		t.Fatalf("end = %v, want 2024-03-10", w.EndDate)
	}
	if !w.StartDate.Equal(now) || w.Extended {
		t.Fatalf("start = %v extended = %v, want now and not extended", w.StartDate, w.Extended)
	}
	if w.Status != dbm.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", w.Status)
	}
	if w.PreviousEndDate != nil {
		t.Fatalf("previous end = %v, want nil", w.PreviousEndDate)
	}
}

func TestComputeRenewalExtendsRunningMembership(t *testing.T) {
	start := day(2023, 12, 20)
	customer := dbm.Customer{
		Status:    dbm.StatusActive,
		StartDate: ptr(start),
		EndDate:   ptr(day(2024, 1, 20)),
	}
	plan := dbm.MembershipPlan{DurationMonths: 1, FreeMonths: 1}

	w := ComputeRenewal(customer, plan, day(2024, 1, 10))

	if !w.EndDate.Equal(day(2024, 3, 20)) {
		t.Fatalf("end = %v, want 2024-03-20", w.EndDate)
	}
	if !w.StartDate.Equal(start) {
		t.Fatalf("start moved to %v", w.StartDate)
	}
	if !w.Extended || !w.WindowStart.Equal(day(2024, 1, 20)) {
		t.Fatalf("window start = %v extended = %v", w.WindowStart, w.Extended)
	}
}

func TestComputeRenewalLapsedActiveCountsFromNow(t *testing.T) {
	start := day(2023, 12, 5)
	customer := dbm.Customer{
		Status:    dbm.StatusActive,
		StartDate: ptr(start),
		EndDate:   ptr(day(2024, 1, 5)),
	}
	now := day(2024, 1, 10)

	w := ComputeRenewal(customer, dbm.MembershipPlan{DurationMonths: 1}, now)

	if !w.EndDate.Equal(day(2024, 2, 10)) {
		t.Fatalf("end = %v, want 2024-02-10", w.EndDate)
	}
	if w.Extended {
		t.Fatalf("lapsed membership must not extend")
	}
	if !w.StartDate.Equal(start) {
		t.Fatalf("start = %v, want unchanged %v", w.StartDate, start)
	}
}

func TestComputeRenewalCancelledRestarts(t *testing.T) {
	now := day(2024, 1, 10)
	customer := dbm.Customer{
		Status:    dbm.StatusCancelled,
		StartDate: ptr(day(2023, 6, 1)),
		EndDate:   ptr(day(2024, 2, 1)),
	}

	w := ComputeRenewal(customer, dbm.MembershipPlan{DurationMonths: 3}, now)

	if !w.StartDate.Equal(now) || !w.EndDate.Equal(day(2024, 4, 10)) {
		t.Fatalf("got start %v end %v", w.StartDate, w.EndDate)
	}
}

func TestComputeRenewalClampsMonthEnd(t *testing.T) {
	customer := dbm.Customer{
		Status:    dbm.StatusActive,
		StartDate: ptr(day(2023, 12, 31)),
		EndDate:   ptr(day(2024, 1, 31)),
	}

	w := ComputeRenewal(customer, dbm.MembershipPlan{DurationMonths: 1}, day(2024, 1, 10))

	if !w.EndDate.Equal(day(2024, 2, 29)) {
		t.Fatalf("end = %v, want 2024-02-29", w.EndDate)
	}
}

func TestBucketFor(t *testing.T) {
	cases := []struct {
		days int
		want Bucket
	}{
		{90, BucketFresh},
		{31, BucketFresh},
		{30, BucketWarning},
		{15, BucketWarning},
		{14, BucketCaution},
		{5, BucketCaution},
		{4, BucketCritical},
		{0, BucketCritical},
		{-1, BucketExpired},
	}
	for _, tc := range cases {
		if got := BucketFor(tc.days); got != tc.want {
			t.Fatalf("BucketFor(%d) = %s, want %s", tc.days, got, tc.want)
		}
	}
	if BucketExpired.ExpiringSoon() || BucketFresh.ExpiringSoon() || !BucketCritical.ExpiringSoon() {
		t.Fatalf("ExpiringSoon covers warning through critical only")
	}
}

func TestDeriveMembershipStatus(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	plan := &dbm.MembershipPlan{DurationMonths: 1}

	view := DeriveMembershipStatus(nil, ptr(day(2024, 1, 20)), plan, now)
	if view.DaysRemaining == nil || *view.DaysRemaining != 10 || view.Label != "10 days" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Bucket != string(BucketCaution) || view.EndDateDerived {
		t.Fatalf("unexpected bucket %s derived %v", view.Bucket, view.EndDateDerived)
	}

	view = DeriveMembershipStatus(nil, ptr(day(2024, 1, 11)), plan, now)
	if view.Label != "1 day" {
		t.Fatalf("label = %q, want 1 day", view.Label)
	}

	view = DeriveMembershipStatus(nil, ptr(day(2024, 1, 9)), plan, now)
	if view.Label != ExpiredLabel || view.Bucket != string(BucketExpired) || view.DaysRemaining != nil {
		t.Fatalf("unexpected expired view %+v", view)
	}

	view = DeriveMembershipStatus(ptr(day(2024, 1, 1)), nil, plan, now)
	if !view.EndDateDerived || !view.EndDate.Equal(day(2024, 2, 1)) {
		t.Fatalf("derived end = %v (%v)", view.EndDate, view.EndDateDerived)
	}

	view = DeriveMembershipStatus(nil, nil, plan, now)
	if view.Bucket != string(BucketUnknown) || view.EndDate != nil {
		t.Fatalf("unexpected unknown view %+v", view)
	}
}
