package scheduling_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/application/scheduling"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes y helpers
// ──────────────────────────────────────────────────────────────────────────────

type fakePayments struct {
	params ports.CheckoutParams
	err    error
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, p ports.CheckoutParams) (string, error) {
	f.params = p
	if f.err != nil {
		return "", f.err
	}
	return "https://checkout.stripe.test/cs_1", nil
}

func (f *fakePayments) CreatePortalSession(context.Context, string, string) (string, error) {
	return "", nil
}

type fakeCalendar struct{ events []ports.CalendarEvent }

func (f *fakeCalendar) CreateEvent(_ context.Context, ev ports.CalendarEvent) (string, error) {
	f.events = append(f.events, ev)
	return "gc_event_1", nil
}

type fakeSMS struct{ sent []ports.Reminder }

func (f *fakeSMS) SendAppointmentReminder(_ context.Context, r ports.Reminder) error {
	f.sent = append(f.sent, r)
	return nil
}

const (
	orgID        = "org_demo"
	assessmentID = "as_1"
)

type env struct {
	store    *memory.Store
	uc       *scheduling.UseCase
	follow   *scheduling.FollowUps
	payments *fakePayments
	calendar *fakeCalendar
	sms      *fakeSMS
}

func newEnv(t *testing.T, withEstimate bool) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{ID: "t1", Name: "Shine Co", OrgID: orgID}))
	require.NoError(t, store.Assessments().Create(ctx, &entity.Assessment{
		ID: assessmentID, OrgID: orgID, ClientName: "Ana Pérez", ClientEmail: "ana@example.com", ClientPhone: "+15550001",
		VehicleYear: "2020", VehicleMake: "Toyota", VehicleModel: "Camry",
	}))
	if withEstimate {
		require.NoError(t, store.Estimates().Create(ctx, &entity.Estimate{
			ID: "e1", AssessmentID: assessmentID, Total: decimal.RequireFromString("225.56"),
			Items: []entity.EstimateItem{{Description: "Full Detail", Price: decimal.RequireFromString("225.56")}},
		}))
	}
	p := &fakePayments{}
	cal := &fakeCalendar{}
	sms := &fakeSMS{}
	return &env{
		store: store,
		uc: scheduling.NewUseCase(store, store.Tenants(), store.Assessments(), store.Estimates(), store.Appointments(),
			p, "https://app.test/", zerolog.Nop()),
		follow:   scheduling.NewFollowUps(store.Appointments(), store.Assessments(), cal, sms, zerolog.Nop()),
		payments: p,
		calendar: cal,
		sms:      sms,
	}
}

func tasksOfKind(store *memory.Store, kind string) []entity.Task {
	var out []entity.Task
	for _, t := range store.Tasks().All() {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCheckout_ImporteDelPresupuesto(t *testing.T) {
	e := newEnv(t, true)
	selected := time.Now().Add(72 * time.Hour).Truncate(time.Second)

	resp, err := e.uc.CreateCheckout(context.Background(), dto.CreateCheckoutRequest{AssessmentID: assessmentID, SelectedTime: selected})

	require.NoError(t, err)
	require.NotNil(t, resp.URL)
	assert.Equal(t, "https://checkout.stripe.test/cs_1", *resp.URL)
	assert.Equal(t, int64(22556), e.payments.params.AmountCents)
	assert.Equal(t, "Detailing Service for Shine Co", e.payments.params.ProductName)
	assert.Equal(t, assessmentID, e.payments.params.Metadata["assessmentId"])
	assert.Equal(t, selected.UTC().Format(time.RFC3339), e.payments.params.Metadata["selectedTime"])
	assert.Contains(t, e.payments.params.SuccessURL, "https://app.test/assessment?session_id={CHECKOUT_SESSION_ID}&")
}

func TestCreateCheckout_SinPresupuesto_NotFound(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.uc.CreateCheckout(context.Background(), dto.CreateCheckoutRequest{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(time.Hour),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCheckout_FechaPasada_Invalida(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.uc.CreateCheckout(context.Background(), dto.CreateCheckoutRequest{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(-time.Hour),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateCheckout_FalloDelProveedor_URLNula(t *testing.T) {
	e := newEnv(t, true)
	e.payments.err = errors.New("stripe caído")

	resp, err := e.uc.CreateCheckout(context.Background(), dto.CreateCheckoutRequest{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(time.Hour),
	})

	assert.ErrorIs(t, err, domain.ErrUpstream)
	require.NotNil(t, resp)
	assert.Nil(t, resp.URL)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fulfillment
// ──────────────────────────────────────────────────────────────────────────────

func TestFulfillOrder_CreaCitaTareasYQuitaFranja(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	selected := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, e.store.Availability().Upsert(ctx, &entity.Availability{
		ID: "av1", OrgID: orgID, AvailableSlots: []time.Time{selected, selected.Add(time.Hour)},
	}))

	err := e.uc.FulfillOrder(ctx, ports.CheckoutCompleted{
		AssessmentID: assessmentID, SelectedTime: selected.Format(time.RFC3339), PaymentID: "pi_1",
	})

	require.NoError(t, err)
	appt, err := e.store.Appointments().GetByAssessmentID(ctx, assessmentID)
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, entity.AppointmentBooked, appt.Status)
	assert.Equal(t, "2020 Toyota Camry", appt.VehicleDescription)
	assert.Equal(t, "225.56", appt.Price.StringFixed(2))
	assert.True(t, appt.AppointmentTime.Equal(selected))

	assert.Len(t, tasksOfKind(e.store, entity.TaskCalendarCreateEvent), 1)
	reminders := tasksOfKind(e.store, entity.TaskReminderSend)
	require.Len(t, reminders, 1)
	assert.True(t, reminders[0].RunAt.Equal(selected.Add(-scheduling.ReminderLeadTime)))

	av, _ := e.store.Availability().GetByOrgID(ctx, orgID)
	assert.Len(t, av.AvailableSlots, 1, "la franja reservada deja de estar disponible")
}

func TestFulfillOrder_EntregaDuplicada_Idempotente(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	in := ports.CheckoutCompleted{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339), PaymentID: "pi_1",
	}

	require.NoError(t, e.uc.FulfillOrder(ctx, in))
	require.NoError(t, e.uc.FulfillOrder(ctx, in))

	list, _ := e.store.Appointments().ListByOrg(ctx, orgID)
	assert.Len(t, list, 1)
	assert.Len(t, tasksOfKind(e.store, entity.TaskCalendarCreateEvent), 1)
	assert.Len(t, tasksOfKind(e.store, entity.TaskReminderSend), 1)
}

func TestFulfillOrder_CitaCercana_SinRecordatorio(t *testing.T) {
	e := newEnv(t, true)

	require.NoError(t, e.uc.FulfillOrder(context.Background(), ports.CheckoutCompleted{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(3 * time.Hour).UTC().Format(time.RFC3339),
	}))

	assert.Empty(t, tasksOfKind(e.store, entity.TaskReminderSend))
	assert.Len(t, tasksOfKind(e.store, entity.TaskCalendarCreateEvent), 1)
}

func TestFulfillOrder_SinPresupuesto_PrecioNulo(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	require.NoError(t, e.uc.FulfillOrder(ctx, ports.CheckoutCompleted{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	}))

	appt, _ := e.store.Appointments().GetByAssessmentID(ctx, assessmentID)
	require.NotNil(t, appt)
	assert.Nil(t, appt.Price)
}

func TestFulfillOrder_AssessmentInexistente_SeIgnora(t *testing.T) {
	e := newEnv(t, true)

	err := e.uc.FulfillOrder(context.Background(), ports.CheckoutCompleted{
		AssessmentID: "no-existe", SelectedTime: time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})

	require.NoError(t, err)
	assert.Empty(t, e.store.Tasks().All())
}

func TestFulfillOrder_FechaIlegible_Invalida(t *testing.T) {
	e := newEnv(t, true)

	err := e.uc.FulfillOrder(context.Background(), ports.CheckoutCompleted{AssessmentID: assessmentID, SelectedTime: "mañana"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseSelectedTime_Formatos(t *testing.T) {
	want := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	got, err := scheduling.ParseSelectedTime("2026-06-01T10:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = scheduling.ParseSelectedTime("1780308000000")
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "milisegundos Unix")

	_, err = scheduling.ParseSelectedTime("")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListForClient_PorEmailOPorNombre(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	require.NoError(t, e.uc.FulfillOrder(ctx, ports.CheckoutCompleted{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	}))

	byEmail, err := e.uc.ListForClient(ctx, "ana@example.com", "")
	require.NoError(t, err)
	assert.Len(t, byEmail.Items, 1)

	byName, err := e.uc.ListForClient(ctx, "", "Ana Pérez")
	require.NoError(t, err)
	assert.Len(t, byName.Items, 1)

	none, err := e.uc.ListForClient(ctx, "", "")
	require.NoError(t, err)
	assert.NotNil(t, none.Items)
	assert.Empty(t, none.Items)
}

func TestGetByAssessmentID_SinCita_Nil(t *testing.T) {
	e := newEnv(t, true)

	resp, err := e.uc.GetByAssessmentID(context.Background(), assessmentID)

	require.NoError(t, err)
	assert.Nil(t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tareas posteriores a la reserva
// ──────────────────────────────────────────────────────────────────────────────

func bookAndGetTask(t *testing.T, e *env, kind string) *entity.Task {
	t.Helper()
	require.NoError(t, e.uc.FulfillOrder(context.Background(), ports.CheckoutCompleted{
		AssessmentID: assessmentID, SelectedTime: time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	}))
	list := tasksOfKind(e.store, kind)
	require.Len(t, list, 1)
	return &list[0]
}

func TestHandleCalendarTask_GuardaEventoUnaVez(t *testing.T) {
	e := newEnv(t, true)
	task := bookAndGetTask(t, e, entity.TaskCalendarCreateEvent)

	require.NoError(t, e.follow.HandleCalendarTask(context.Background(), task))
	require.NoError(t, e.follow.HandleCalendarTask(context.Background(), task))

	assert.Len(t, e.calendar.events, 1)
	assert.Equal(t, "ana@example.com", e.calendar.events[0].ClientEmail)
	appt, _ := e.store.Appointments().GetByAssessmentID(context.Background(), assessmentID)
	assert.Equal(t, "gc_event_1", appt.CalendarEventID)
}

func TestHandleReminderTask_EnviaSMS(t *testing.T) {
	e := newEnv(t, true)
	task := bookAndGetTask(t, e, entity.TaskReminderSend)

	require.NoError(t, e.follow.HandleReminderTask(context.Background(), task))

	require.Len(t, e.sms.sent, 1)
	assert.Equal(t, "+15550001", e.sms.sent[0].ClientPhone)
	assert.Equal(t, "Ana Pérez", e.sms.sent[0].ClientName)
}

func TestHandleReminderTask_CitaInexistente(t *testing.T) {
	e := newEnv(t, true)
	task, err := jobs.NewTask(entity.TaskReminderSend, jobs.AppointmentPayload{AppointmentID: "nada"}, time.Now())
	require.NoError(t, err)

	err = e.follow.HandleReminderTask(context.Background(), task)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, e.sms.sent)
}
