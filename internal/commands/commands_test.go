package commands

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"

	"ococalli/internal/config"
	"ococalli/internal/infra"
	"ococalli/internal/models/db_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/services"
)

var expiringNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func member(code string, status db_models.CustomerStatus, left *int) resp.CustomerResponse {
	var end *time.Time
	if left != nil {
		e := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, *left)
		end = &e
	}
	return resp.CustomerResponse{
		MembershipCode: code,
		Status:         string(status),
		Membership:     services.DeriveMembershipStatus(nil, end, nil, expiringNow),
	}
}

func days(n int) *int { return &n }

func TestSelectExpiring(t *testing.T) {
	in := []resp.CustomerResponse{
		member("A", db_models.StatusActive, days(40)),
		member("B", db_models.StatusActive, days(12)),
		member("C", db_models.StatusActive, days(-3)),
		member("D", db_models.StatusActive, days(0)),
		member("E", db_models.StatusActive, nil),
		member("F", db_models.StatusActive, days(30)),
		member("G", db_models.StatusCancelled, days(5)),
		member("H", db_models.StatusPending, days(2)),
		member("I", db_models.StatusCancelled, days(-8)),
	}
	if in[2].Membership.Bucket != string(services.BucketExpired) || in[2].Membership.DaysRemaining != nil {
		t.Fatalf("fixture C = %+v", in[2].Membership)
	}

	got := selectExpiring(in, 30, false)
	want := []string{"D", "B", "F"}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, code := range want {
		if got[i].MembershipCode != code {
			t.Fatalf("row %d = %s, want %s", i, got[i].MembershipCode, code)
		}
	}

	got = selectExpiring(in, 30, true)
	want = []string{"C", "D", "B", "F"}
	if len(got) != len(want) {
		t.Fatalf("with expired: got %d rows, want %d", len(got), len(want))
	}
	for i, code := range want {
		if got[i].MembershipCode != code {
			t.Fatalf("with expired: row %d = %s, want %s", i, got[i].MembershipCode, code)
		}
	}
}

type stubExports struct{ called string }

func (s *stubExports) CustomersXLSX(context.Context, io.Writer) error {
	s.called = "customers/xlsx"
	return nil
}

func (s *stubExports) RenewalsXLSX(context.Context, io.Writer) error {
	s.called = "renewals/xlsx"
	return nil
}

func (s *stubExports) PickupsXLSX(context.Context, io.Writer) error {
	s.called = "pickups/xlsx"
	return nil
}

func (s *stubExports) PickupsPDF(context.Context, io.Writer) error {
	s.called = "pickups/pdf"
	return nil
}

func TestExportTarget(t *testing.T) {
	ok := [][2]string{{"customers", "xlsx"}, {"renewals", "xlsx"}, {"pickups", "xlsx"}, {"pickups", "pdf"}}
	for _, c := range ok {
		if _, err := exportTarget(nil, c[0], c[1]); err != nil {
			t.Fatalf("%s/%s with no service: %v", c[0], c[1], err)
		}

		stub := &stubExports{}
		render, err := exportTarget(stub, c[0], c[1])
		if err != nil {
			t.Fatalf("%s/%s: %v", c[0], c[1], err)
		}
		if err := render(context.Background(), io.Discard); err != nil {
			t.Fatalf("%s/%s render: %v", c[0], c[1], err)
		}
		if want := c[0] + "/" + c[1]; stub.called != want {
			t.Fatalf("called %q, want %q", stub.called, want)
		}
	}
	for _, c := range [][2]string{{"customers", "pdf"}, {"plans", "xlsx"}, {"pickups", "csv"}} {
		if _, err := exportTarget(&stubExports{}, c[0], c[1]); err == nil {
			t.Fatalf("%s/%s: expected error", c[0], c[1])
		}
	}
}

func TestWireAndSeedPlans(t *testing.T) {
	log := zap.NewNop()
	db, err := infra.OpenMemoryDatabase(t.Name(), log)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	a, err := wire(&config.Config{SnowflakeNode: 1}, log, db)
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	current = a
	t.Cleanup(func() {
		current.close()
		current = nil
	})

	seedPlansCmd.SetContext(context.Background())
	if err := seedPlansCmd.RunE(seedPlansCmd, nil); err != nil {
		t.Fatalf("seed plans: %v", err)
	}
	if err := seedPlansCmd.RunE(seedPlansCmd, nil); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	plans, err := a.plans.GetPlans(context.Background())
	if err != nil || len(plans) != len(DefaultPlans) {
		t.Fatalf("plans: %d %v", len(plans), err)
	}

	var buf bytes.Buffer
	render, err := exportTarget(a.exports, "pickups", "pdf")
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	if err := render(context.Background(), &buf); err != nil || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("pdf export: %v", err)
	}
}
