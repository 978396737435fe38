package tour

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/clock"
	"github.com/evcraddock/showing-hive/internal/db"
	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
	"github.com/evcraddock/showing-hive/internal/showing"
)

var now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, 6, 1, h, m, 0, 0, time.UTC)
}

var bea = schedule.Person{Name: "Bea Buyer"}

type nopNotifier struct{}

func (nopNotifier) Notify(...notify.Message) {}

type fixture struct {
	svc      *Service
	showings *showing.Manager
	props    *property.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	clk := clock.NewFake(now)
	props := property.NewRepository(d)
	events := activity.NewLog(activity.NewRepository(d), clk)
	mgr := showing.NewManager(props, schedule.NewRegistry(schedule.NewSQLiteStore(d)), events, nopNotifier{},
		showing.WithClock(clk))

	return &fixture{
		svc:      NewService(NewRepository(d), mgr, props, clk, time.Hour),
		showings: mgr,
		props:    props,
	}
}

func (f *fixture) approvedShowing(t *testing.T, propertyName string, start time.Time) *schedule.Showing {
	t.Helper()
	ctx := context.Background()
	p, err := f.props.Insert(ctx, &property.Property{Name: propertyName, Address: propertyName + " Street"})
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}
	sh, err := f.showings.RequestShowing(ctx, p.ID, start, bea)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	sh, err = f.showings.Approve(ctx, sh.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return sh
}

func TestCreateOrdersByStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.approvedShowing(t, "Late", at(15, 0))
	early := f.approvedShowing(t, "Early", at(9, 0))
	mid := f.approvedShowing(t, "Mid", at(11, 30))

	tour, err := f.svc.Create(ctx, "Bea Buyer", []string{late.ID, early.ID, mid.ID, early.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(tour.Stops) != 3 {
		t.Fatalf("got %d stops, want 3", len(tour.Stops))
	}
	want := []string{"Early", "Mid", "Late"}
	for i, name := range want {
		if tour.Stops[i].PropertyName != name {
			t.Errorf("stop %d = %s, want %s", i, tour.Stops[i].PropertyName, name)
		}
	}
	if !tour.Stops[0].EndsAt.Equal(at(10, 0)) {
		t.Errorf("first stop ends %v, want 10:00", tour.Stops[0].EndsAt)
	}
	if tour.Stops[0].Address != "Early Street" {
		t.Errorf("address = %q", tour.Stops[0].Address)
	}

	got, err := f.svc.Get(ctx, tour.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Stops) != 3 || got.Stops[2].ShowingID != late.ID {
		t.Errorf("stored tour = %+v", got)
	}

	list, err := f.svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d tours, want 1", len(list))
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved := f.approvedShowing(t, "Approved", at(9, 0))

	p, err := f.props.Insert(ctx, &property.Property{Name: "Pending", Address: "1 Pending St"})
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}
	pending, err := f.showings.RequestShowing(ctx, p.ID, at(10, 0), bea)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	tests := []struct {
		name string
		ids  []string
		want error
	}{
		{"empty", nil, schedule.ErrInvalidInput},
		{"unknown showing", []string{approved.ID, "nope"}, schedule.ErrNotFound},
		{"pending showing", []string{approved.ID, pending.ID}, schedule.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, "Bea", tt.ids)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Get(context.Background(), "nope"); !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
