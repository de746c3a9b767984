// Package service runs intake sessions through the wizard and delivers them
package service

import (
	"context"
	"time"

	"taxintake/internal/adapters/relay"
	"taxintake/internal/core/intake"
	"taxintake/internal/core/wizard"
	perr "taxintake/internal/platform/errors"
	"taxintake/internal/platform/logger"
	ptime "taxintake/internal/platform/time"
	estdomain "taxintake/internal/services/api/estimate/domain"
	"taxintake/internal/services/api/intake/domain"
	"taxintake/internal/services/api/intake/repo"

	"github.com/google/uuid"
)

// Service is the intake contract handlers call
type Service interface {
	Create(ctx context.Context) (domain.View, error)
	Get(ctx context.Context, id string) (domain.View, error)
	SavePersonal(ctx context.Context, id string, v intake.PersonalInfo) (domain.View, error)
	SaveIncome(ctx context.Context, id string, v intake.IncomeData) (domain.View, error)
	SaveExpenses(ctx context.Context, id string, v intake.ExpenseData) (domain.View, error)
	SaveSalary(ctx context.Context, id string, v intake.SalaryData) (domain.View, error)
	Next(ctx context.Context, id string) (domain.View, error)
	Back(ctx context.Context, id string) (domain.View, error)
	Estimate(ctx context.Context, id string) (estdomain.Output, error)
	Submit(ctx context.Context, id string) (domain.SubmitResult, error)
	Summary(ctx context.Context, id string) ([]byte, error)
}

// Deps are the collaborators. Recorder may be nil
type Deps struct {
	Store     repo.Store
	Relay     domain.Relay
	Estimator domain.Estimator
	Renderer  domain.Renderer
	Recorder  domain.Recorder
	// SendingTimeout is how long a sending claim blocks the session before
	// it may be reclaimed. zero means DefaultSendingTimeout
	SendingTimeout time.Duration
}

// DefaultSendingTimeout outlives a relay call with all its retries
const DefaultSendingTimeout = 5 * time.Minute

// saveAttempts bounds the writes that settle a claim after the relay answered
const saveAttempts = 3

// Svc implements Service
type Svc struct {
	d   Deps
	now func() time.Time
	// newID is swapped in tests
	newID func() uuid.UUID
}

// New builds the service
func New(d Deps) *Svc {
	if d.Store == nil || d.Relay == nil || d.Estimator == nil || d.Renderer == nil {
		panic("intake.Service requires store, relay, estimator and renderer")
	}
	if d.SendingTimeout <= 0 {
		d.SendingTimeout = DefaultSendingTimeout
	}
	return &Svc{d: d, now: func() time.Time { return time.Now().UTC() }, newID: uuid.New}
}

func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, perr.NotFoundf("intake session not found")
	}
	return u, nil
}

// Create starts a session at the personal step
func (s *Svc) Create(ctx context.Context) (domain.View, error) {
	now := s.now()
	sess := domain.Session{
		ID:        s.newID(),
		Step:      wizard.StepPersonal,
		Status:    domain.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.d.Store.Create(ctx, sess); err != nil {
		return domain.View{}, err
	}
	logger.C(ctx).Info().Str("session_id", sess.ID.String()).Msg("intake session created")
	return sess.ToView(), nil
}

// Get returns the session view
func (s *Svc) Get(ctx context.Context, id string) (domain.View, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return domain.View{}, err
	}
	return sess.ToView(), nil
}

func (s *Svc) load(ctx context.Context, id string) (domain.Session, error) {
	u, err := parseID(id)
	if err != nil {
		return domain.Session{}, err
	}
	return s.d.Store.Get(ctx, u)
}

// mutate locks the session, checks it is still open, applies fn and saves
func (s *Svc) mutate(ctx context.Context, id string, fn func(*domain.Session) error) (domain.View, error) {
	u, err := parseID(id)
	if err != nil {
		return domain.View{}, err
	}
	var out domain.Session
	err = s.d.Store.Atomic(ctx, func(r repo.Repo) error {
		sess, err := r.Lock(ctx, u)
		if err != nil {
			return err
		}
		if err := s.editable(ctx, &sess); err != nil {
			return err
		}
		if err := fn(&sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.now()
		out = sess
		return r.Update(ctx, sess)
	})
	if err != nil {
		return domain.View{}, err
	}
	return out.ToView(), nil
}

// editable fails unless the session is open. a sending claim older than
// SendingTimeout was left by a crash or a lost write, so it is reopened
func (s *Svc) editable(ctx context.Context, sess *domain.Session) error {
	switch sess.Status {
	case domain.StatusSubmitted:
		return perr.Conflictf("intake already submitted")
	case domain.StatusSending:
		if s.now().Sub(sess.UpdatedAt) < s.d.SendingTimeout {
			return perr.Conflictf("intake submission in progress")
		}
		logger.C(ctx).Warn().Str("session_id", sess.ID.String()).Time("claimed_at", sess.UpdatedAt).
			Msg("stale intake claim reclaimed")
		sess.Status = domain.StatusOpen
	}
	if !sess.Step.Editable() {
		return perr.Conflictf("intake already submitted")
	}
	return nil
}

// SavePersonal replaces the personal step. the current step does not move
func (s *Svc) SavePersonal(ctx context.Context, id string, v intake.PersonalInfo) (domain.View, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error { sess.Form.Personal = v; return nil })
}

// SaveIncome replaces the income step
func (s *Svc) SaveIncome(ctx context.Context, id string, v intake.IncomeData) (domain.View, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error { sess.Form.Income = v; return nil })
}

// SaveExpenses replaces the expenses step
func (s *Svc) SaveExpenses(ctx context.Context, id string, v intake.ExpenseData) (domain.View, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error { sess.Form.Expenses = v; return nil })
}

// SaveSalary replaces the salary step
func (s *Svc) SaveSalary(ctx context.Context, id string, v intake.SalaryData) (domain.View, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error { sess.Form.Salary = v; return nil })
}

// requireComplete fails with the first blank required field of step
func requireComplete(f intake.Form, step wizard.Step) error {
	if missing := f.Missing(step); len(missing) > 0 {
		return perr.WithField(perr.Validationf("%s is required to leave the %s step", missing[0], step), missing[0])
	}
	return nil
}

// Next advances one step once the current step's required fields are filled
func (s *Svc) Next(ctx context.Context, id string) (domain.View, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := requireComplete(sess.Form, sess.Step); err != nil {
			return err
		}
		next, err := wizard.Next(sess.Step)
		if err != nil {
			return err
		}
		sess.Step = next
		return nil
	})
}

// Back moves one step back. nothing is validated
func (s *Svc) Back(ctx context.Context, id string) (domain.View, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		prev, err := wizard.Back(sess.Step)
		if err != nil {
			return err
		}
		sess.Step = prev
		return nil
	})
}

// Estimate runs the estimator over the session's salary step
func (s *Svc) Estimate(ctx context.Context, id string) (estdomain.Output, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return estdomain.Output{}, err
	}
	return s.d.Estimator.Estimate(ctx, sess.Form.EstimateInput())
}

// Summary renders the PDF for the session
func (s *Svc) Summary(ctx context.Context, id string) ([]byte, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.d.Renderer.Render(sess.Form, sess.Form.Estimate(), sess.ID.String())
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "render summary")
	}
	return b, nil
}

// Submit delivers the session to the relay. the session is claimed as sending
// first so a second submit gets a 409 instead of a duplicate delivery. on
// relay failure the session reopens on the salary step with the relay's message
func (s *Svc) Submit(ctx context.Context, id string) (domain.SubmitResult, error) {
	u, err := parseID(id)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	log := logger.C(logger.WithSession(ctx, u.String()))

	var sess domain.Session
	err = s.d.Store.Atomic(ctx, func(r repo.Repo) error {
		cur, err := r.Lock(ctx, u)
		if err != nil {
			return err
		}
		if err := s.editable(ctx, &cur); err != nil {
			return err
		}
		if _, err := wizard.Complete(cur.Step); err != nil {
			return err
		}
		for _, st := range []wizard.Step{wizard.StepPersonal, wizard.StepIncome, wizard.StepSalary} {
			if err := requireComplete(cur.Form, st); err != nil {
				return err
			}
		}
		cur.Status = domain.StatusSending
		cur.UpdatedAt = s.now()
		sess = cur
		return r.Update(ctx, cur)
	})
	if err != nil {
		return domain.SubmitResult{}, err
	}

	est := sess.Form.Estimate()
	payload := relay.Payload{
		Fields:  append(sess.Form.Fields(), intake.Figures(est)...),
		Message: intake.Summary(sess.Form, est),
	}
	res, relayErr := s.d.Relay.Submit(ctx, payload)

	// the claim has to be released even when the caller went away
	fctx := context.WithoutCancel(ctx)
	now := s.now()
	if relayErr != nil {
		sess.Status = domain.StatusOpen
		sess.RelayMessage = perr.WireFrom(relayErr).Message
		sess.UpdatedAt = now
		if err := s.settle(fctx, sess); err != nil {
			log.Error().Err(err).Msg("release intake claim failed, it expires after the sending timeout")
		}
		log.Warn().Err(relayErr).Msg("intake relay failed")
		return domain.SubmitResult{}, relayErr
	}

	sess.Step, _ = wizard.Complete(sess.Step)
	sess.Status = domain.StatusSubmitted
	sess.RelayMessage = res.Message
	sess.UpdatedAt = now
	sess.SubmittedAt = ptime.Ptr(now)
	// the relay already has the form, so a lost stamp must not read as a failure
	if err := s.settle(fctx, sess); err != nil {
		log.Error().Err(err).Msg("stamp intake submitted failed, it stays sending until the timeout")
	}
	log.Info().Int("relay_attempts", res.Attempts).Msg("intake submitted")

	if s.d.Recorder != nil {
		in := sess.Form.EstimateInput()
		sub := domain.Submission{
			SessionID:        sess.ID,
			SubmittedAt:      now,
			Industry:         sess.Form.Salary.Industry,
			Education:        sess.Form.Salary.Education,
			AnnualRevenue:    in.AnnualRevenue,
			ReasonableSalary: est.ReasonableSalary,
			TotalTax:         est.TotalTax,
			NetIncome:        est.NetIncome,
			RelayAttempts:    res.Attempts,
		}
		if err := s.d.Recorder.Record(fctx, sub); err != nil {
			log.Warn().Err(err).Msg("record intake submission failed")
		}
	}

	return domain.SubmitResult{Session: sess.ToView(), RelayMessage: res.Message}, nil
}

// settle writes the post-relay state, retrying a few times
func (s *Svc) settle(ctx context.Context, sess domain.Session) error {
	var err error
	for i := 1; i <= saveAttempts; i++ {
		if err = s.d.Store.Update(ctx, sess); err == nil {
			return nil
		}
		logger.C(ctx).Warn().Err(err).Str("session_id", sess.ID.String()).Int("attempt", i).
			Str("status", string(sess.Status)).Msg("intake save failed")
	}
	return err
}
