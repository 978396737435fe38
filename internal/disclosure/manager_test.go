package disclosure

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/clock"
	"github.com/evcraddock/showing-hive/internal/db"
	"github.com/evcraddock/showing-hive/internal/filestore"
	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
)

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

var bea = schedule.Person{Name: "Bea Buyer", Email: "bea@example.com"}

func TestShareRequiresApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{
		Name: "Maple", Address: "1 Maple St", RequiresDisclosureApproval: true,
		Seller: property.Contact{Name: "Sam", Phone: "+15550111"},
	})
	pkg := f.addPackage(t, p.ID, "inspection.pdf", "hoa.pdf")

	sh, err := f.m.RequestShare(ctx, p.ID, pkg.ID, bea)
	if err != nil {
		t.Fatalf("request share: %v", err)
	}
	if sh.Approved {
		t.Fatal("share approved without seller approval")
	}

	if _, err := f.m.DownloadFile(ctx, sh.ID, "inspection.pdf"); !errors.Is(err, schedule.ErrNotApproved) {
		t.Fatalf("download err = %v, want ErrNotApproved", err)
	}

	approved, err := f.m.ApproveShare(ctx, sh.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.Approved || approved.ApprovedAt == nil {
		t.Errorf("share = %+v, want approved with timestamp", approved)
	}

	data, err := f.m.DownloadFile(ctx, sh.ID, "inspection.pdf")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "contents of inspection.pdf" {
		t.Errorf("data = %q", data)
	}
	if _, err := f.m.DownloadFile(ctx, sh.ID, "hoa.pdf"); err != nil {
		t.Fatalf("second download: %v", err)
	}

	got, err := f.m.GetShare(ctx, sh.ID)
	if err != nil {
		t.Fatalf("get share: %v", err)
	}
	if len(got.Downloads) != 2 {
		t.Fatalf("got %d downloads, want 2", len(got.Downloads))
	}
	if got.Downloads[0].Filename != "inspection.pdf" || !got.Downloads[0].Timestamp.Equal(now) {
		t.Errorf("download[0] = %+v", got.Downloads[0])
	}
}

func TestShareAutoApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{Name: "Oak", Address: "2 Oak Ave", RequiresDisclosureApproval: false})
	pkg := f.addPackage(t, p.ID, "survey.pdf")

	sh, err := f.m.RequestShare(ctx, p.ID, pkg.ID, bea)
	if err != nil {
		t.Fatalf("request share: %v", err)
	}
	if !sh.Approved {
		t.Fatal("expected auto-approved share")
	}
	if _, err := f.m.DownloadFile(ctx, sh.ID, "survey.pdf"); err != nil {
		t.Errorf("download: %v", err)
	}

	msgs := f.notes.all()
	if len(msgs) == 0 || !strings.Contains(msgs[len(msgs)-1].Body, "ready to download") {
		t.Errorf("buyer message = %v, want availability notice", msgs)
	}
}

func TestApproveShareIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{Name: "Elm", Address: "3 Elm Rd", RequiresDisclosureApproval: true})
	pkg := f.addPackage(t, p.ID, "a.pdf")

	sh, err := f.m.RequestShare(ctx, p.ID, pkg.ID, bea)
	if err != nil {
		t.Fatalf("request share: %v", err)
	}
	first, err := f.m.ApproveShare(ctx, sh.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	f.clock.Advance(time.Hour)
	second, err := f.m.ApproveShare(ctx, sh.ID)
	if err != nil {
		t.Fatalf("approve again: %v", err)
	}
	if !second.ApprovedAt.Equal(*first.ApprovedAt) {
		t.Errorf("re-approval changed approved_at from %v to %v", first.ApprovedAt, second.ApprovedAt)
	}

	approvals := 0
	for _, e := range f.events.all() {
		if e.typ == activity.ShareApproved {
			approvals++
		}
	}
	if approvals != 1 {
		t.Errorf("recorded %d share_approved events, want 1", approvals)
	}
}

func TestRequestShareNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{Name: "Birch", Address: "4 Birch Ln"})
	other := f.addProperty(t, property.Property{Name: "Cedar", Address: "5 Cedar Ct"})
	otherPkg := f.addPackage(t, other.ID, "x.pdf")

	tests := []struct {
		name       string
		propertyID string
		packageID  string
	}{
		{"unknown property", "nope", otherPkg.ID},
		{"unknown package", p.ID, "nope"},
		{"package of another property", p.ID, otherPkg.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.m.RequestShare(ctx, tt.propertyID, tt.packageID, bea)
			if !errors.Is(err, schedule.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}

	if _, err := f.m.RequestShare(ctx, other.ID, otherPkg.ID, schedule.Person{}); !errors.Is(err, schedule.ErrInvalidInput) {
		t.Errorf("missing buyer err = %v, want ErrInvalidInput", err)
	}
}

func TestDownloadNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{Name: "Pine", Address: "6 Pine Pl"})
	pkg := f.addPackage(t, p.ID, "a.pdf")
	if err := f.files.Write(p.ID, "not-in-package.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	sh, err := f.m.RequestShare(ctx, p.ID, pkg.ID, bea)
	if err != nil {
		t.Fatalf("request share: %v", err)
	}

	if _, err := f.m.DownloadFile(ctx, "nope", "a.pdf"); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("unknown share err = %v, want ErrNotFound", err)
	}
	if _, err := f.m.DownloadFile(ctx, sh.ID, "not-in-package.pdf"); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("file outside package err = %v, want ErrNotFound", err)
	}

	got, err := f.m.GetShare(ctx, sh.ID)
	if err != nil {
		t.Fatalf("get share: %v", err)
	}
	if len(got.Downloads) != 0 {
		t.Errorf("failed downloads recorded %d entries", len(got.Downloads))
	}
}

func TestCreatePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{Name: "Ash", Address: "7 Ash Dr"})
	for _, name := range []string{"a.pdf", "b.pdf"} {
		if err := f.files.Write(p.ID, name, strings.NewReader(name)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	pkg, err := f.m.CreatePackage(ctx, p.ID, "Seller disclosures", []string{"b.pdf", "a.pdf", "b.pdf"}, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pkg.Filenames) != 2 || pkg.Filenames[0] != "b.pdf" {
		t.Errorf("filenames = %v, want [b.pdf a.pdf]", pkg.Filenames)
	}

	tests := []struct {
		name       string
		propertyID string
		pkgName    string
		files      []string
		want       error
	}{
		{"unknown property", "nope", "x", []string{"a.pdf"}, schedule.ErrInvalidProperty},
		{"missing name", p.ID, " ", []string{"a.pdf"}, schedule.ErrInvalidInput},
		{"no files", p.ID, "x", nil, schedule.ErrInvalidInput},
		{"missing file", p.ID, "x", []string{"a.pdf", "ghost.pdf"}, schedule.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.m.CreatePackage(ctx, tt.propertyID, tt.pkgName, tt.files, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	pkgs, err := f.m.ListPackages(ctx, p.ID)
	if err != nil {
		t.Fatalf("list packages: %v", err)
	}
	if len(pkgs) != 1 {
		t.Errorf("got %d packages, want 1", len(pkgs))
	}
}

func TestSubmitShareFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{
		Name: "Fir", Address: "8 Fir Ave",
		Agent: property.Contact{Name: "Alex", Email: "alex@example.com"},
	})
	pkg := f.addPackage(t, p.ID, "a.pdf")
	sh, err := f.m.RequestShare(ctx, p.ID, pkg.ID, bea)
	if err != nil {
		t.Fatalf("request share: %v", err)
	}
	before := len(f.notes.all())

	fb, err := f.m.SubmitShareFeedback(ctx, sh.ID, 5, "Thorough reports")
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if fb.Rating != 5 {
		t.Errorf("rating = %d, want 5", fb.Rating)
	}

	msgs := f.notes.all()[before:]
	if len(msgs) != 1 || msgs[0].To != "alex@example.com" {
		t.Errorf("feedback messages = %v, want one email to the agent", msgs)
	}

	bad := []struct {
		rating  int
		comment string
	}{
		{0, "ok"},
		{6, "ok"},
		{3, ""},
	}
	for _, b := range bad {
		if _, err := f.m.SubmitShareFeedback(ctx, sh.ID, b.rating, b.comment); !errors.Is(err, schedule.ErrInvalidInput) {
			t.Errorf("feedback(%d, %q) err = %v, want ErrInvalidInput", b.rating, b.comment, err)
		}
	}

	if _, err := f.m.SubmitShareFeedback(ctx, "nope", 3, "fine"); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("unknown share err = %v, want ErrNotFound", err)
	}
}

func TestListShares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProperty(t, property.Property{Name: "Yew", Address: "9 Yew St"})
	pkg := f.addPackage(t, p.ID, "a.pdf")

	for range 2 {
		if _, err := f.m.RequestShare(ctx, p.ID, pkg.ID, bea); err != nil {
			t.Fatalf("request share: %v", err)
		}
	}

	shares, err := f.m.ListShares(ctx, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(shares) != 2 {
		t.Errorf("got %d shares, want 2", len(shares))
	}
	if _, err := f.m.ListShares(ctx, "nope"); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("unknown property err = %v, want ErrNotFound", err)
	}
}

type recorded struct {
	propertyID string
	typ        activity.Type
	details    activity.Details
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recorded
}

func (r *fakeRecorder) Record(_ context.Context, propertyID string, typ activity.Type, details activity.Details) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{propertyID, typ, details})
}

func (r *fakeRecorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.events...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *fakeNotifier) Notify(msgs ...notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msgs...)
}

func (n *fakeNotifier) all() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.msgs...)
}

type fixture struct {
	m      *Manager
	props  *property.Repository
	files  *filestore.Store
	clock  *clock.Fake
	events *fakeRecorder
	notes  *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	d, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	files, err := filestore.New(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	f := &fixture{
		props:  property.NewRepository(d),
		files:  files,
		clock:  clock.NewFake(now),
		events: &fakeRecorder{},
		notes:  &fakeNotifier{},
	}
	reg := schedule.NewRegistry(schedule.NewSQLiteStore(d))
	f.m = NewManager(f.props, reg, f.files, f.events, f.notes, WithClock(f.clock))
	return f
}

func (f *fixture) addProperty(t *testing.T, p property.Property) *property.Property {
	t.Helper()
	saved, err := f.props.Insert(context.Background(), &p)
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}
	return saved
}

func (f *fixture) addPackage(t *testing.T, propertyID string, names ...string) *schedule.Package {
	t.Helper()
	for _, name := range names {
		if err := f.files.Write(propertyID, name, strings.NewReader("contents of "+name)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	pkg, err := f.m.CreatePackage(context.Background(), propertyID, "Disclosures", names, false)
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	return pkg
}
