// Package scheduling cubre el pago de un presupuesto, la creación idempotente de la
// cita cuando el pago se confirma y las tareas que la siguen (calendario y recordatorio).
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// ReminderLeadTime antelación del recordatorio respecto a la cita.
const ReminderLeadTime = 24 * time.Hour

const checkoutCurrency = "usd"

var decimalHundred = decimal.NewFromInt(100)

// errAlreadyFulfilled corta la transacción cuando otra entrega ya creó la cita.
var errAlreadyFulfilled = errors.New("cita ya creada para el assessment")

// UseCase checkout, fulfillment y consultas de citas.
type UseCase struct {
	tx           repository.TxRunner
	tenants      repository.TenantRepository
	assessments  repository.AssessmentRepository
	estimates    repository.EstimateRepository
	appointments repository.AppointmentRepository
	payments     ports.PaymentProvider
	hostingURL   string
	log          zerolog.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. hostingURL es la URL pública del frontend.
func NewUseCase(
	tx repository.TxRunner,
	tenants repository.TenantRepository,
	assessments repository.AssessmentRepository,
	estimates repository.EstimateRepository,
	appointments repository.AppointmentRepository,
	payments ports.PaymentProvider,
	hostingURL string,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		tx:           tx,
		tenants:      tenants,
		assessments:  assessments,
		estimates:    estimates,
		appointments: appointments,
		payments:     payments,
		hostingURL:   strings.TrimRight(hostingURL, "/"),
		log:          log,
		now:          time.Now,
	}
}

// CreateCheckout crea la sesión de pago del presupuesto. El importe sale del presupuesto
// guardado, nunca del cliente. Un fallo del proveedor devuelve domain.ErrUpstream.
func (uc *UseCase) CreateCheckout(ctx context.Context, in dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.SelectedTime.After(uc.now()) {
		return nil, fmt.Errorf("selected_time debe ser futuro: %w", domain.ErrInvalidInput)
	}
	a, err := uc.assessments.GetByID(ctx, in.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("obtener assessment: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("assessment: %w", domain.ErrNotFound)
	}
	est, err := uc.estimates.GetByAssessmentID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener estimate: %w", err)
	}
	if est == nil {
		return nil, fmt.Errorf("estimate: %w", domain.ErrNotFound)
	}
	tenant, err := uc.tenants.GetByOrgID(ctx, a.OrgID)
	if err != nil {
		return nil, fmt.Errorf("obtener tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("tenant: %w", domain.ErrNotFound)
	}

	cents := est.Total.Mul(decimalHundred).Round(0).IntPart()
	if cents <= 0 {
		return nil, fmt.Errorf("el presupuesto no tiene importe: %w", domain.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("assessmentId", a.ID)
	q.Set("tenantId", a.OrgID)
	// {CHECKOUT_SESSION_ID} lo sustituye Stripe; no debe quedar escapado.
	successURL := uc.hostingURL + "/assessment?session_id={CHECKOUT_SESSION_ID}&" + q.Encode()
	cancelURL := uc.hostingURL + "/assessment?tenantId=" + url.QueryEscape(a.OrgID)

	checkoutURL, err := uc.payments.CreateCheckoutSession(ctx, ports.CheckoutParams{
		AmountCents:   cents,
		Currency:      checkoutCurrency,
		ProductName:   "Detailing Service for " + tenant.Name,
		CustomerEmail: a.ClientEmail,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		Metadata: map[string]string{
			"assessmentId": a.ID,
			"selectedTime": in.SelectedTime.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		uc.log.Error().Err(err).Str("assessment_id", a.ID).Msg("error creando checkout")
		return &dto.CheckoutResponse{URL: nil}, fmt.Errorf("checkout: %w", domain.ErrUpstream)
	}
	return &dto.CheckoutResponse{URL: &checkoutURL}, nil
}

// FulfillOrder crea la cita de un pago confirmado. Es idempotente por assessment:
// entregas repetidas del webhook no duplican la cita ni las tareas.
// Un assessment inexistente se registra y se ignora.
func (uc *UseCase) FulfillOrder(ctx context.Context, in ports.CheckoutCompleted) error {
	log := uc.log.With().Str("assessment_id", in.AssessmentID).Str("payment_id", in.PaymentID).Logger()

	selected, err := ParseSelectedTime(in.SelectedTime)
	if err != nil {
		return fmt.Errorf("selectedTime %q: %w", in.SelectedTime, domain.ErrInvalidInput)
	}
	a, err := uc.assessments.GetByID(ctx, in.AssessmentID)
	if err != nil {
		return fmt.Errorf("obtener assessment: %w", err)
	}
	if a == nil {
		log.Error().Msg("assessment no encontrado; no se crea la cita")
		return nil
	}
	est, err := uc.estimates.GetByAssessmentID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("obtener estimate: %w", err)
	}

	now := uc.now()
	appt := &entity.Appointment{
		ID:                 uuid.New().String(),
		AssessmentID:       a.ID,
		OrgID:              a.OrgID,
		ClientName:         a.ClientName,
		ClientEmail:        a.ClientEmail,
		VehicleDescription: a.VehicleDescription(),
		AppointmentTime:    selected,
		Status:             entity.AppointmentBooked,
		PaymentID:          in.PaymentID,
		CreatedAt:          now,
	}
	if est != nil {
		price := est.Total
		appt.Price = &price
	}

	calendarTask, err := jobs.NewTask(entity.TaskCalendarCreateEvent, jobs.AppointmentPayload{AppointmentID: appt.ID}, now)
	if err != nil {
		return err
	}
	var reminderTask *entity.Task
	if reminderAt := selected.Add(-ReminderLeadTime); reminderAt.After(now) {
		reminderTask, err = jobs.NewTask(entity.TaskReminderSend, jobs.AppointmentPayload{AppointmentID: appt.ID}, reminderAt)
		if err != nil {
			return err
		}
	}

	err = uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		existing, err := repos.Appointments.GetByAssessmentID(ctx, a.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyFulfilled
		}
		if err := repos.Appointments.Create(ctx, appt); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return errAlreadyFulfilled
			}
			return err
		}
		if err := repos.Tasks.Enqueue(ctx, calendarTask); err != nil {
			return err
		}
		if reminderTask != nil {
			if err := repos.Tasks.Enqueue(ctx, reminderTask); err != nil {
				return err
			}
		}
		return repos.Availability.RemoveSlot(ctx, a.OrgID, selected)
	})
	if errors.Is(err, errAlreadyFulfilled) {
		log.Info().Msg("la cita ya existe; entrega duplicada ignorada")
		return nil
	}
	if err != nil {
		return fmt.Errorf("crear cita: %w", err)
	}
	log.Info().Str("appointment_id", appt.ID).Bool("reminder", reminderTask != nil).Msg("cita reservada")
	return nil
}

// ParseSelectedTime acepta RFC 3339 o milisegundos Unix (formato del frontend anterior).
func ParseSelectedTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha no reconocida")
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ListUpcoming citas reservadas del tenant por fecha ascendente.
func (uc *UseCase) ListUpcoming(ctx context.Context, orgID string) (*dto.AppointmentListResponse, error) {
	list, err := uc.appointments.ListUpcomingByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listar citas: %w", err)
	}
	return toListResponse(list), nil
}

// GetByAssessmentID cita de un assessment (nil si aún no se ha pagado).
func (uc *UseCase) GetByAssessmentID(ctx context.Context, assessmentID string) (*dto.AppointmentResponse, error) {
	a, err := uc.appointments.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("obtener cita: %w", err)
	}
	if a == nil {
		return nil, nil
	}
	resp := toAppointmentResponse(a)
	return &resp, nil
}

// ListForClient historial del cliente autenticado: por email, o por nombre si el token no trae email.
func (uc *UseCase) ListForClient(ctx context.Context, email, name string) (*dto.AppointmentListResponse, error) {
	var (
		list []*entity.Appointment
		err  error
	)
	switch {
	case strings.TrimSpace(email) != "":
		list, err = uc.appointments.ListByClientEmail(ctx, strings.TrimSpace(email))
	case strings.TrimSpace(name) != "":
		list, err = uc.appointments.ListByClientName(ctx, strings.TrimSpace(name))
	default:
		return toListResponse(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("listar citas del cliente: %w", err)
	}
	return toListResponse(list), nil
}

func toListResponse(list []*entity.Appointment) *dto.AppointmentListResponse {
	out := &dto.AppointmentListResponse{Items: make([]dto.AppointmentResponse, 0, len(list))}
	for _, a := range list {
		out.Items = append(out.Items, toAppointmentResponse(a))
	}
	return out
}

func toAppointmentResponse(a *entity.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:                 a.ID,
		AssessmentID:       a.AssessmentID,
		OrgID:              a.OrgID,
		ClientName:         a.ClientName,
		VehicleDescription: a.VehicleDescription,
		AppointmentTime:    a.AppointmentTime,
		Status:             a.Status,
		Price:              a.Price,
		CalendarEventID:    a.CalendarEventID,
	}
}
