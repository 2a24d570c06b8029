// Package memory implementa los repositorios del dominio sobre mapas en memoria.
// Sirve para tests de casos de uso y para levantar la API sin PostgreSQL.
// Las transacciones se serializan y se deshacen restaurando una copia del estado.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.TenantRepository         = (*TenantRepo)(nil)
	_ repository.PricingModelRepository   = (*PricingRepo)(nil)
	_ repository.AvailabilityRepository   = (*AvailabilityRepo)(nil)
	_ repository.SubscriptionRepository   = (*SubscriptionRepo)(nil)
	_ repository.AssessmentRepository     = (*AssessmentRepo)(nil)
	_ repository.EstimateJobRepository    = (*EstimateJobRepo)(nil)
	_ repository.EstimateRepository       = (*EstimateRepo)(nil)
	_ repository.AppointmentRepository    = (*AppointmentRepo)(nil)
	_ repository.ReviewRepository         = (*ReviewRepo)(nil)
	_ repository.AnalyticsCacheRepository = (*AnalyticsCacheRepo)(nil)
	_ repository.InsightRepository        = (*InsightRepo)(nil)
	_ repository.TaskRepository           = (*TaskRepo)(nil)
	_ repository.TxRunner                 = (*Store)(nil)
)

type state struct {
	users        map[string]entity.User // por external id
	tenants      map[string]entity.Tenant
	pricing      map[string]entity.PricingModel
	availability map[string]entity.Availability
	subs         map[string]entity.Subscription
	assessments  map[string]entity.Assessment
	jobs         map[string]entity.EstimateJob // por assessment
	estimates    map[string]entity.Estimate    // por assessment
	appointments map[string]entity.Appointment
	reviews      map[string]entity.Review
	cache        map[string]entity.AnalyticsCache
	insights     map[string]entity.AIInsight
	tasks        map[string]entity.Task
}

func newState() state {
	return state{
		users:        map[string]entity.User{},
		tenants:      map[string]entity.Tenant{},
		pricing:      map[string]entity.PricingModel{},
		availability: map[string]entity.Availability{},
		subs:         map[string]entity.Subscription{},
		assessments:  map[string]entity.Assessment{},
		jobs:         map[string]entity.EstimateJob{},
		estimates:    map[string]entity.Estimate{},
		appointments: map[string]entity.Appointment{},
		reviews:      map[string]entity.Review{},
		cache:        map[string]entity.AnalyticsCache{},
		insights:     map[string]entity.AIInsight{},
		tasks:        map[string]entity.Task{},
	}
}

func (s state) clone() state {
	c := newState()
	copyMap(c.users, s.users)
	copyMap(c.tenants, s.tenants)
	for k, v := range s.pricing {
		v.Services = append([]entity.Service(nil), v.Services...)
		c.pricing[k] = v
	}
	for k, v := range s.availability {
		v.AvailableSlots = append([]time.Time(nil), v.AvailableSlots...)
		c.availability[k] = v
	}
	copyMap(c.subs, s.subs)
	copyMap(c.assessments, s.assessments)
	copyMap(c.jobs, s.jobs)
	copyMap(c.estimates, s.estimates)
	copyMap(c.appointments, s.appointments)
	copyMap(c.reviews, s.reviews)
	copyMap(c.cache, s.cache)
	copyMap(c.insights, s.insights)
	copyMap(c.tasks, s.tasks)
	return c
}

func copyMap[V any](dst, src map[string]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve los repositorios que participan en transacciones.
func (s *Store) Repos() repository.TxRepos {
	return repository.TxRepos{
		Tenants:       s.Tenants(),
		Pricing:       s.Pricing(),
		Availability:  s.Availability(),
		Subscriptions: s.Subscriptions(),
		Assessments:   s.Assessments(),
		EstimateJobs:  s.EstimateJobs(),
		Appointments:  s.Appointments(),
		Tasks:         s.Tasks(),
	}
}

// RunInTx ejecuta fn; si devuelve error el estado vuelve al de antes de la llamada.
func (s *Store) RunInTx(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Users() *UserRepo { return &UserRepo{s} }
func (s *Store) Tenants() *TenantRepo { return &TenantRepo{s} }
func (s *Store) Pricing() *PricingRepo { return &PricingRepo{s} }
func (s *Store) Availability() *AvailabilityRepo { return &AvailabilityRepo{s} }
func (s *Store) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{s} }
func (s *Store) Assessments() *AssessmentRepo { return &AssessmentRepo{s} }
func (s *Store) EstimateJobs() *EstimateJobRepo { return &EstimateJobRepo{s} }
func (s *Store) Estimates() *EstimateRepo { return &EstimateRepo{s} }
func (s *Store) Appointments() *AppointmentRepo { return &AppointmentRepo{s} }
func (s *Store) Reviews() *ReviewRepo { return &ReviewRepo{s} }
func (s *Store) AnalyticsCache() *AnalyticsCacheRepo { return &AnalyticsCacheRepo{s} }
func (s *Store) Insights() *InsightRepo { return &InsightRepo{s} }
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s} }

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	if _, ok := r.s.st.users[u.ExternalUserID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.users[u.ExternalUserID] = *u
	return nil
}

func (r *UserRepo) GetByExternalID(_ context.Context, externalUserID string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.st.users[externalUserID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ─── Tenants ─────────────────────────────────────────────────────────────────

type TenantRepo struct{ s *Store }

func (r *TenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	defer r.s.lock()()
	if _, ok := r.s.st.tenants[t.OrgID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.tenants[t.OrgID] = *t
	return nil
}

func (r *TenantRepo) GetByOrgID(_ context.Context, orgID string) (*entity.Tenant, error) {
	defer r.s.lock()()
	t, ok := r.s.st.tenants[orgID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	defer r.s.lock()()
	if _, ok := r.s.st.tenants[t.OrgID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.tenants[t.OrgID] = *t
	return nil
}

func (r *TenantRepo) List(_ context.Context) ([]*entity.Tenant, error) {
	defer r.s.lock()()
	out := make([]*entity.Tenant, 0, len(r.s.st.tenants))
	for _, t := range r.s.st.tenants {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ─── Catálogo y agenda ───────────────────────────────────────────────────────

type PricingRepo struct{ s *Store }

func (r *PricingRepo) Create(_ context.Context, m *entity.PricingModel) error {
	defer r.s.lock()()
	if _, ok := r.s.st.pricing[m.OrgID]; ok {
		return domain.ErrDuplicate
	}
	c := *m
	c.Services = append([]entity.Service(nil), m.Services...)
	r.s.st.pricing[m.OrgID] = c
	return nil
}

func (r *PricingRepo) GetByOrgID(_ context.Context, orgID string) (*entity.PricingModel, error) {
	defer r.s.lock()()
	m, ok := r.s.st.pricing[orgID]
	if !ok {
		return nil, nil
	}
	m.Services = append([]entity.Service(nil), m.Services...)
	return &m, nil
}

func (r *PricingRepo) UpdateServices(_ context.Context, m *entity.PricingModel) error {
	defer r.s.lock()()
	cur, ok := r.s.st.pricing[m.OrgID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Services = append([]entity.Service(nil), m.Services...)
	cur.UpdatedAt = m.UpdatedAt
	r.s.st.pricing[m.OrgID] = cur
	return nil
}

type AvailabilityRepo struct{ s *Store }

func (r *AvailabilityRepo) Upsert(_ context.Context, a *entity.Availability) error {
	defer r.s.lock()()
	c := *a
	c.AvailableSlots = append([]time.Time(nil), a.AvailableSlots...)
	r.s.st.availability[a.OrgID] = c
	return nil
}

func (r *AvailabilityRepo) GetByOrgID(_ context.Context, orgID string) (*entity.Availability, error) {
	defer r.s.lock()()
	a, ok := r.s.st.availability[orgID]
	if !ok {
		return nil, nil
	}
	a.AvailableSlots = append([]time.Time(nil), a.AvailableSlots...)
	return &a, nil
}

func (r *AvailabilityRepo) RemoveSlot(_ context.Context, orgID string, slot time.Time) error {
	defer r.s.lock()()
	a, ok := r.s.st.availability[orgID]
	if !ok {
		return nil
	}
	kept := make([]time.Time, 0, len(a.AvailableSlots))
	for _, t := range a.AvailableSlots {
		if !t.Equal(slot) {
			kept = append(kept, t)
		}
	}
	a.AvailableSlots = kept
	r.s.st.availability[orgID] = a
	return nil
}

// ─── Suscripciones ───────────────────────────────────────────────────────────

type SubscriptionRepo struct{ s *Store }

func (r *SubscriptionRepo) Create(_ context.Context, sub *entity.Subscription) error {
	defer r.s.lock()()
	if _, ok := r.s.st.subs[sub.OrgID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.subs[sub.OrgID] = *sub
	return nil
}

func (r *SubscriptionRepo) GetByOrgID(_ context.Context, orgID string) (*entity.Subscription, error) {
	defer r.s.lock()()
	sub, ok := r.s.st.subs[orgID]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *SubscriptionRepo) GetByStripeID(_ context.Context, stripeSubscriptionID string) (*entity.Subscription, error) {
	defer r.s.lock()()
	for _, sub := range r.s.st.subs {
		if sub.StripeSubscriptionID == stripeSubscriptionID {
			sub := sub
			return &sub, nil
		}
	}
	return nil, nil
}

func (r *SubscriptionRepo) Update(_ context.Context, sub *entity.Subscription) error {
	defer r.s.lock()()
	if _, ok := r.s.st.subs[sub.OrgID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.subs[sub.OrgID] = *sub
	return nil
}

// ─── Assessments y presupuestos ──────────────────────────────────────────────

type AssessmentRepo struct{ s *Store }

func (r *AssessmentRepo) Create(_ context.Context, a *entity.Assessment) error {
	defer r.s.lock()()
	if _, ok := r.s.st.assessments[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.assessments[a.ID] = *a
	return nil
}

func (r *AssessmentRepo) GetByID(_ context.Context, id string) (*entity.Assessment, error) {
	defer r.s.lock()()
	a, ok := r.s.st.assessments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

type EstimateJobRepo struct{ s *Store }

func (r *EstimateJobRepo) Create(_ context.Context, job *entity.EstimateJob) error {
	defer r.s.lock()()
	if _, ok := r.s.st.jobs[job.AssessmentID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.jobs[job.AssessmentID] = *job
	return nil
}

func (r *EstimateJobRepo) GetByAssessmentID(_ context.Context, assessmentID string) (*entity.EstimateJob, error) {
	defer r.s.lock()()
	j, ok := r.s.st.jobs[assessmentID]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (r *EstimateJobRepo) UpdateStatus(_ context.Context, jobID, status, errMsg string) error {
	defer r.s.lock()()
	for k, j := range r.s.st.jobs {
		if j.ID != jobID {
			continue
		}
		if status == entity.JobStatusInProgress {
			j.Attempts++
		}
		j.Status = status
		j.LastError = errMsg
		j.UpdatedAt = time.Now()
		r.s.st.jobs[k] = j
		return nil
	}
	return domain.ErrNotFound
}

type EstimateRepo struct{ s *Store }

func (r *EstimateRepo) Create(_ context.Context, e *entity.Estimate) error {
	defer r.s.lock()()
	if _, ok := r.s.st.estimates[e.AssessmentID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.estimates[e.AssessmentID] = *e
	return nil
}

func (r *EstimateRepo) GetByAssessmentID(_ context.Context, assessmentID string) (*entity.Estimate, error) {
	defer r.s.lock()()
	e, ok := r.s.st.estimates[assessmentID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// ─── Citas y reseñas ─────────────────────────────────────────────────────────

type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	defer r.s.lock()()
	for _, cur := range r.s.st.appointments {
		if cur.AssessmentID == a.AssessmentID {
			return domain.ErrDuplicate
		}
	}
	r.s.st.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id string) (*entity.Appointment, error) {
	defer r.s.lock()()
	a, ok := r.s.st.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AppointmentRepo) GetByAssessmentID(_ context.Context, assessmentID string) (*entity.Appointment, error) {
	list := r.filter(func(a entity.Appointment) bool { return a.AssessmentID == assessmentID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *AppointmentRepo) ListByOrg(_ context.Context, orgID string) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.OrgID == orgID }), nil
}

func (r *AppointmentRepo) ListUpcomingByOrg(_ context.Context, orgID string) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return a.OrgID == orgID && a.Status == entity.AppointmentBooked
	}), nil
}

func (r *AppointmentRepo) ListByClientEmail(_ context.Context, email string) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.ClientEmail == email }), nil
}

func (r *AppointmentRepo) ListByClientName(_ context.Context, name string) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.ClientName == name }), nil
}

func (r *AppointmentRepo) SetCalendarEventID(_ context.Context, id, eventID string) error {
	defer r.s.lock()()
	a, ok := r.s.st.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.CalendarEventID = eventID
	r.s.st.appointments[id] = a
	return nil
}

// filter devuelve las citas que cumplen keep, por fecha ascendente.
func (r *AppointmentRepo) filter(keep func(entity.Appointment) bool) []*entity.Appointment {
	defer r.s.lock()()
	out := make([]*entity.Appointment, 0)
	for _, a := range r.s.st.appointments {
		if keep(a) {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.Before(out[j].AppointmentTime) })
	return out
}

type ReviewRepo struct{ s *Store }

func (r *ReviewRepo) Create(_ context.Context, rv *entity.Review) error {
	defer r.s.lock()()
	for _, cur := range r.s.st.reviews {
		if cur.AppointmentID == rv.AppointmentID {
			return domain.ErrDuplicate
		}
	}
	r.s.st.reviews[rv.ID] = *rv
	return nil
}

func (r *ReviewRepo) GetByAppointmentID(_ context.Context, appointmentID string) (*entity.Review, error) {
	defer r.s.lock()()
	for _, rv := range r.s.st.reviews {
		if rv.AppointmentID == appointmentID {
			rv := rv
			return &rv, nil
		}
	}
	return nil, nil
}

func (r *ReviewRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.Review, error) {
	return r.ListRecentByOrg(ctx, orgID, 0)
}

func (r *ReviewRepo) ListRecentByOrg(_ context.Context, orgID string, limit int) ([]*entity.Review, error) {
	defer r.s.lock()()
	out := make([]*entity.Review, 0)
	for _, rv := range r.s.st.reviews {
		if rv.OrgID == orgID {
			rv := rv
			out = append(out, &rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ─── Analítica ───────────────────────────────────────────────────────────────

type AnalyticsCacheRepo struct{ s *Store }

func (r *AnalyticsCacheRepo) Upsert(_ context.Context, c *entity.AnalyticsCache) error {
	defer r.s.lock()()
	if cur, ok := r.s.st.cache[c.OrgID]; ok {
		c.ID = cur.ID
	}
	r.s.st.cache[c.OrgID] = *c
	return nil
}

func (r *AnalyticsCacheRepo) GetByOrgID(_ context.Context, orgID string) (*entity.AnalyticsCache, error) {
	defer r.s.lock()()
	c, ok := r.s.st.cache[orgID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type InsightRepo struct{ s *Store }

func (r *InsightRepo) Replace(_ context.Context, in *entity.AIInsight) error {
	defer r.s.lock()()
	r.s.st.insights[in.OrgID] = *in
	return nil
}

func (r *InsightRepo) GetLatest(_ context.Context, orgID string) (*entity.AIInsight, error) {
	defer r.s.lock()()
	in, ok := r.s.st.insights[orgID]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

// ─── Cola de tareas ──────────────────────────────────────────────────────────

type TaskRepo struct{ s *Store }

func (r *TaskRepo) Enqueue(_ context.Context, t *entity.Task) error {
	defer r.s.lock()()
	if _, ok := r.s.st.tasks[t.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *t
	if c.Status == "" {
		c.Status = entity.TaskPending
	}
	r.s.st.tasks[t.ID] = c
	return nil
}

func (r *TaskRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]*entity.Task, error) {
	defer r.s.lock()()
	due := make([]entity.Task, 0)
	for _, t := range r.s.st.tasks {
		if t.Status == entity.TaskPending && !t.RunAt.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	out := make([]*entity.Task, 0, len(due))
	for _, t := range due {
		t.Status = entity.TaskRunning
		t.Attempts++
		t.UpdatedAt = now
		r.s.st.tasks[t.ID] = t
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (r *TaskRepo) MarkDone(_ context.Context, id string) error {
	return r.set(id, entity.TaskDone, "")
}

func (r *TaskRepo) MarkFailed(_ context.Context, id, errMsg string) error {
	return r.set(id, entity.TaskFailed, errMsg)
}

func (r *TaskRepo) RequeueStale(_ context.Context, olderThan time.Time) (int64, error) {
	defer r.s.lock()()
	var n int64
	for id, t := range r.s.st.tasks {
		if t.Status == entity.TaskRunning && t.UpdatedAt.Before(olderThan) {
			t.Status = entity.TaskPending
			r.s.st.tasks[id] = t
			n++
		}
	}
	return n, nil
}

// All tareas ordenadas por run_at (inspección en tests y depuración).
func (r *TaskRepo) All() []entity.Task {
	defer r.s.lock()()
	out := make([]entity.Task, 0, len(r.s.st.tasks))
	for _, t := range r.s.st.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunAt.Before(out[j].RunAt) })
	return out
}

func (r *TaskRepo) set(id, status, errMsg string) error {
	defer r.s.lock()()
	t, ok := r.s.st.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	t.LastError = errMsg
	t.UpdatedAt = time.Now()
	r.s.st.tasks[id] = t
	return nil
}
