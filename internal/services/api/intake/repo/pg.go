package repo

import (
	"context"
	"encoding/json"
	"time"

	"taxintake/internal/core/wizard"
	"taxintake/internal/modkit/repokit"
	perr "taxintake/internal/platform/errors"
	pstrings "taxintake/internal/platform/strings"
	ptime "taxintake/internal/platform/time"
	"taxintake/internal/services/api/intake/domain"

	"github.com/google/uuid"
)

// Schema creates the sessions table
const Schema = `
create table if not exists intake_sessions (
	id            uuid primary key,
	step          text not null,
	form          jsonb not null default '{}'::jsonb,
	status        text not null default 'open',
	relay_message text,
	created_at    timestamptz not null default now(),
	updated_at    timestamptz not null default now(),
	submitted_at  timestamptz
);
create index if not exists intake_sessions_status_idx on intake_sessions (status, updated_at);
`

// Migrate applies Schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "migrate intake_sessions")
}

// PG binds queries to a pool or tx
type PG struct{}

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

type queries struct{ q repokit.Queryer }

const cols = `id::text, step, form::text, status, relay_message, created_at, updated_at, submitted_at`

func (r *queries) Create(ctx context.Context, s domain.Session) error {
	form, err := json.Marshal(s.Form)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode form")
	}
	err = repokit.ExecOne(ctx, r.q, `
insert into intake_sessions (id, step, form, status, relay_message, created_at, updated_at, submitted_at)
values ($1::uuid, $2, $3::jsonb, $4, $5, $6, $7, $8)`,
		s.ID.String(), s.Step.String(), string(form), string(s.Status),
		pstrings.SQLNull(s.RelayMessage), s.CreatedAt, s.UpdatedAt, s.SubmittedAt)
	return perr.FromPostgres(err, "create intake session")
}

func (r *queries) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return r.one(ctx, `select `+cols+` from intake_sessions where id = $1::uuid`, id)
}

func (r *queries) Lock(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return r.one(ctx, `select `+cols+` from intake_sessions where id = $1::uuid for update`, id)
}

func (r *queries) Update(ctx context.Context, s domain.Session) error {
	form, err := json.Marshal(s.Form)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode form")
	}
	tag, err := r.q.Exec(ctx, `
update intake_sessions
set step = $2, form = $3::jsonb, status = $4, relay_message = $5, updated_at = $6, submitted_at = $7
where id = $1::uuid`,
		s.ID.String(), s.Step.String(), string(form), string(s.Status),
		pstrings.SQLNull(s.RelayMessage), s.UpdatedAt, s.SubmittedAt)
	if err != nil {
		return perr.FromPostgres(err, "update intake session")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("intake session not found")
	}
	return nil
}

func (r *queries) one(ctx context.Context, sql string, id uuid.UUID) (domain.Session, error) {
	var (
		s                    domain.Session
		idText, step, status string
		form                 string
		relayMsg             *string
		submitted            *time.Time
	)
	err := r.q.QueryRow(ctx, sql, id.String()).Scan(
		&idText, &step, &form, &status, &relayMsg, &s.CreatedAt, &s.UpdatedAt, &submitted)
	if err != nil {
		return domain.Session{}, perr.FromPostgres(err, "intake session not found")
	}

	if s.ID, err = uuid.Parse(idText); err != nil {
		return domain.Session{}, perr.Wrap(err, perr.ErrorCodeDB, "bad session id in store")
	}
	if s.Step, err = wizard.Parse(step); err != nil {
		return domain.Session{}, perr.Wrap(err, perr.ErrorCodeDB, "bad step in store")
	}
	if err := json.Unmarshal([]byte(form), &s.Form); err != nil {
		return domain.Session{}, perr.Wrap(err, perr.ErrorCodeDB, "bad form in store")
	}
	s.Status = domain.Status(status)
	s.RelayMessage = pstrings.Deref(relayMsg)
	s.SubmittedAt = ptime.Ptr(ptime.Deref(submitted))
	return s, nil
}

// pgStore runs Repo calls on the pool and Atomic inside a transaction
type pgStore struct {
	Repo
	db     repokit.TxRunner
	binder repokit.Binder[Repo]
}

// NewPGStore returns a Store over db
func NewPGStore(db repokit.TxRunner) Store {
	b := repokit.BindFunc[Repo](PG{}.Bind)
	return &pgStore{Repo: repokit.MustBind[Repo](b, db), db: db, binder: b}
}

func (s *pgStore) Atomic(ctx context.Context, fn func(Repo) error) error {
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return fn(s.binder.Bind(q))
	})
}
