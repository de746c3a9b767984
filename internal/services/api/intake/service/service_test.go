package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"taxintake/internal/adapters/relay"
	"taxintake/internal/core/intake"
	"taxintake/internal/core/salary"
	"taxintake/internal/core/wizard"
	perr "taxintake/internal/platform/errors"
	estsvc "taxintake/internal/services/api/estimate/service"
	"taxintake/internal/services/api/intake/domain"
	"taxintake/internal/services/api/intake/repo"

	"github.com/google/uuid"
)

type fakeRelay struct {
	mu    sync.Mutex
	calls []relay.Payload
	err   error
	// during runs inside Submit, before it returns
	during func()
}

func (f *fakeRelay) Submit(_ context.Context, p relay.Payload) (relay.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return relay.Result{}, f.err
	}
	return relay.Result{Message: "Email sent successfully!", Attempts: 1}, nil
}

type fakeRecorder struct {
	subs []domain.Submission
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, s domain.Submission) error {
	f.subs = append(f.subs, s)
	return f.err
}

type fakeRenderer struct{ got string }

func (f *fakeRenderer) Render(_ intake.Form, r salary.EstimateResult, id string) ([]byte, error) {
	f.got = id
	return []byte("%PDF " + id), nil
}

type fixture struct {
	svc   *Svc
	store *repo.Memory
	relay *fakeRelay
	rec   *fakeRecorder
}

func newFixture() fixture {
	f := fixture{store: repo.NewMemory(0), relay: &fakeRelay{}, rec: &fakeRecorder{}}
	f.svc = New(Deps{
		Store:     f.store,
		Relay:     f.relay,
		Estimator: estsvc.New(nil, 0),
		Renderer:  &fakeRenderer{},
		Recorder:  f.rec,
	})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

var fixedNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

// failingStore fails the next fails plain Updates. writes inside Atomic pass
type failingStore struct {
	*repo.Memory
	fails   int
	updates int
}

func (s *failingStore) Update(ctx context.Context, sess domain.Session) error {
	s.updates++
	if s.fails > 0 {
		s.fails--
		return perr.Unavailablef("postgres gone")
	}
	return s.Memory.Update(ctx, sess)
}

var (
	personal = intake.PersonalInfo{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0100",
		Address: "1 Analytical Way", Occupation: "Engineer", Employer: "Engines LLC",
	}
	income = intake.IncomeData{
		PersonalSalary: "90000", SCorpRevenue: "1000000", SCorpExpenses: "200000", SCorpDistributions: "50000",
	}
	salaryStep = intake.SalaryData{
		Industry: "technology", YearsExperience: "0", Education: "master", HoursWorked: "40",
		EmployeeCount: "4", AnnualRevenue: "1000000", SimilarPositionSalary: "100000",
	}
)

func code(t *testing.T, err error, want perr.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected code %d, got nil", want)
	}
	if got := perr.CodeOf(err); got != want {
		t.Fatalf("code %d, want %d (%v)", got, want, err)
	}
}

// walk fills every step and leaves the session on salary
func walk(t *testing.T, s *Svc, id string) {
	t.Helper()
	ctx := context.Background()
	steps := []func() error{
		func() error { _, err := s.SavePersonal(ctx, id, personal); return err },
		func() error { _, err := s.Next(ctx, id); return err },
		func() error { _, err := s.SaveIncome(ctx, id, income); return err },
		func() error { _, err := s.Next(ctx, id); return err },
		func() error { _, err := s.Next(ctx, id); return err },
		func() error { _, err := s.SaveSalary(ctx, id, salaryStep); return err },
	}
	for i, fn := range steps {
		if err := fn(); err != nil {
			t.Fatalf("walk step %d: %v", i, err)
		}
	}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	v, err := f.svc.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Step != wizard.StepPersonal || v.Status != domain.StatusOpen || v.StepIndex != 1 || v.StepCount != 5 {
		t.Fatalf("new session %+v", v)
	}

	got, err := f.svc.Get(ctx, v.ID)
	if err != nil || got.ID != v.ID {
		t.Fatalf("get %+v %v", got, err)
	}

	_, err = f.svc.Get(ctx, "not-a-uuid")
	code(t, err, perr.ErrorCodeNotFound)
	_, err = f.svc.Get(ctx, uuid.NewString())
	code(t, err, perr.ErrorCodeNotFound)
}

func TestSaveDoesNotMoveStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)

	got, err := f.svc.SaveSalary(ctx, v.ID, salaryStep)
	if err != nil {
		t.Fatal(err)
	}
	if got.Step != wizard.StepPersonal || got.Form.Salary != salaryStep {
		t.Fatalf("after save %+v", got)
	}
}

func TestNextRequiresCurrentStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)

	_, err := f.svc.Next(ctx, v.ID)
	code(t, err, perr.ErrorCodeValidation)
	if e, ok := perr.As(err); !ok || e.Field() != "first_name" {
		t.Fatalf("field %v", err)
	}

	if _, err := f.svc.SavePersonal(ctx, v.ID, personal); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Next(ctx, v.ID)
	if err != nil || got.Step != wizard.StepIncome {
		t.Fatalf("next %+v %v", got, err)
	}
}

func TestBackAndEdges(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)

	_, err := f.svc.Back(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)

	walk(t, f.svc, v.ID)
	_, err = f.svc.Next(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)

	got, err := f.svc.Back(ctx, v.ID)
	if err != nil || got.Step != wizard.StepExpenses {
		t.Fatalf("back %+v %v", got, err)
	}
}

func TestEstimate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	if _, err := f.svc.SaveSalary(ctx, v.ID, salaryStep); err != nil {
		t.Fatal(err)
	}

	out, err := f.svc.Estimate(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.ReasonableSalary != 100000 || out.TotalTax != 34650 || out.NetIncome != 65350 {
		t.Fatalf("estimate %+v", out.EstimateResult)
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	res, err := f.svc.Submit(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Session.Step != wizard.StepSuccess || res.Session.Status != domain.StatusSubmitted {
		t.Fatalf("session %+v", res.Session)
	}
	if res.Session.SubmittedAt == nil || res.RelayMessage != "Email sent successfully!" {
		t.Fatalf("result %+v", res)
	}

	if len(f.relay.calls) != 1 {
		t.Fatalf("relay calls %d", len(f.relay.calls))
	}
	p := f.relay.calls[0]
	keys := map[string]string{}
	for _, fl := range p.Fields {
		keys[fl.Key] = fl.Value
	}
	if keys["personal_firstName"] != "Ada" || keys["tax_total"] != "$34,650.00" {
		t.Fatalf("payload fields %v", keys)
	}
	if !strings.Contains(p.Message, "Tax Calculation Summary") {
		t.Fatalf("message %q", p.Message)
	}

	if len(f.rec.subs) != 1 || f.rec.subs[0].ReasonableSalary != 100000 || f.rec.subs[0].Industry != "technology" {
		t.Fatalf("recorded %+v", f.rec.subs)
	}

	_, err = f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)
	_, err = f.svc.SavePersonal(ctx, v.ID, personal)
	code(t, err, perr.ErrorCodeConflict)
	_, err = f.svc.Back(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)
}

func TestSubmitOnlyFromSalary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)

	_, err := f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)
	if len(f.relay.calls) != 0 {
		t.Fatal("relay should not be called")
	}
}

func TestSubmitRequiresEarlierSteps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	blank := personal
	blank.Email = ""
	if _, err := f.svc.SavePersonal(ctx, v.ID, blank); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeValidation)
	if e, _ := perr.As(err); e.Field() != "email" {
		t.Fatalf("field %q", e.Field())
	}
}

func TestSubmitRelayFailureReopens(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	f.relay.err = perr.Upstreamf("Invalid access key")
	_, err := f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeUpstream)

	got, _ := f.svc.Get(ctx, v.ID)
	if got.Step != wizard.StepSalary || got.Status != domain.StatusOpen || got.RelayMessage != "Invalid access key" {
		t.Fatalf("after failure %+v", got)
	}
	if len(f.rec.subs) != 0 {
		t.Fatal("failed submit should not be recorded")
	}

	f.relay.err = nil
	if _, err := f.svc.Submit(ctx, v.ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestSubmitClaimBlocksConcurrentEdits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	var during error
	f.relay.during = func() {
		_, during = f.svc.Submit(ctx, v.ID)
	}
	if _, err := f.svc.Submit(ctx, v.ID); err != nil {
		t.Fatal(err)
	}
	code(t, during, perr.ErrorCodeConflict)
	if len(f.relay.calls) != 1 {
		t.Fatalf("relay calls %d", len(f.relay.calls))
	}
}

func TestSubmitStampFailureStillSucceeds(t *testing.T) {
	f := newFixture()
	st := &failingStore{Memory: f.store, fails: 100}
	f.svc.d.Store = st
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	res, err := f.svc.Submit(ctx, v.ID)
	if err != nil {
		t.Fatalf("delivered submit reported as failed: %v", err)
	}
	if res.Session.Status != domain.StatusSubmitted || res.RelayMessage == "" {
		t.Fatalf("result %+v", res)
	}
	if st.updates != saveAttempts {
		t.Fatalf("updates %d, want %d", st.updates, saveAttempts)
	}

	// the claim outlived the lost stamp and still blocks a duplicate delivery
	got, _ := f.svc.Get(ctx, v.ID)
	if got.Status != domain.StatusSending {
		t.Fatalf("status %q", got.Status)
	}
	_, err = f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)
	_, err = f.svc.Back(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)
	if len(f.relay.calls) != 1 {
		t.Fatalf("relay calls %d", len(f.relay.calls))
	}

	f.svc.now = func() time.Time { return fixedNow.Add(DefaultSendingTimeout) }
	back, err := f.svc.Back(ctx, v.ID)
	if err != nil {
		t.Fatalf("stale claim not reclaimed: %v", err)
	}
	if back.Status != domain.StatusOpen || back.Step != wizard.StepExpenses {
		t.Fatalf("after reclaim %+v", back)
	}
}

func TestSubmitReleaseRetriesUpdate(t *testing.T) {
	f := newFixture()
	st := &failingStore{Memory: f.store, fails: 1}
	f.svc.d.Store = st
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	f.relay.err = perr.Unavailablef("relay unreachable")
	_, err := f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeUnavailable)

	if st.updates != 2 {
		t.Fatalf("updates %d, want 2", st.updates)
	}
	got, _ := f.svc.Get(ctx, v.ID)
	if got.Status != domain.StatusOpen || got.RelayMessage != "relay unreachable" {
		t.Fatalf("after release %+v", got)
	}
}

func TestSendingTimeoutOverride(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.d.SendingTimeout = time.Minute
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	// a crash between claim and release leaves sending behind
	u := uuid.MustParse(v.ID)
	sess, _ := f.store.Get(ctx, u)
	sess.Status = domain.StatusSending
	if err := f.store.Update(ctx, sess); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Submit(ctx, v.ID)
	code(t, err, perr.ErrorCodeConflict)

	f.svc.now = func() time.Time { return fixedNow.Add(time.Minute) }
	res, err := f.svc.Submit(ctx, v.ID)
	if err != nil {
		t.Fatalf("reclaim submit: %v", err)
	}
	if res.Session.Status != domain.StatusSubmitted || len(f.relay.calls) != 1 {
		t.Fatalf("result %+v, relay calls %d", res, len(f.relay.calls))
	}
}

func TestRecorderFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.rec.err = errors.New("clickhouse down")
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)
	walk(t, f.svc, v.ID)

	if _, err := f.svc.Submit(ctx, v.ID); err != nil {
		t.Fatalf("recorder error leaked: %v", err)
	}
}

func TestSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.svc.Create(ctx)

	b, err := f.svc.Summary(ctx, v.ID)
	if err != nil || string(b) != "%PDF "+v.ID {
		t.Fatalf("summary %q %v", b, err)
	}
}
