// Package analytics contiene el recálculo de las métricas del dashboard del detailer,
// el fan-out periódico por tenant y los reportes descargables de clientes.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	domainanalytics "github.com/jhoicas/slick-api/internal/domain/analytics"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// DefaultReportFormat formato cuando el cliente no indica ninguno.
const DefaultReportFormat = "csv"

// UseCase métricas cacheadas y reportes.
type UseCase struct {
	tenants      repository.TenantRepository
	appointments repository.AppointmentRepository
	reviews      repository.ReviewRepository
	cache        repository.AnalyticsCacheRepository
	tasks        repository.TaskRepository
	renderers    map[string]ports.ReportRenderer
	log          zerolog.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. Cada renderer se registra bajo su Format().
func NewUseCase(
	tenants repository.TenantRepository,
	appointments repository.AppointmentRepository,
	reviews repository.ReviewRepository,
	cache repository.AnalyticsCacheRepository,
	tasks repository.TaskRepository,
	renderers []ports.ReportRenderer,
	log zerolog.Logger,
) *UseCase {
	byFormat := make(map[string]ports.ReportRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &UseCase{
		tenants:      tenants,
		appointments: appointments,
		reviews:      reviews,
		cache:        cache,
		tasks:        tasks,
		renderers:    byFormat,
		log:          log,
		now:          time.Now,
	}
}

// ScheduleAll encola un recálculo por tenant (lo dispara el cron cada hora).
func (uc *UseCase) ScheduleAll(ctx context.Context) (int, error) {
	tenants, err := uc.tenants.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listar tenants: %w", err)
	}
	now := uc.now()
	scheduled := 0
	for _, t := range tenants {
		task, err := jobs.NewTask(entity.TaskAnalyticsRecompute, jobs.OrgPayload{OrgID: t.OrgID}, now)
		if err != nil {
			return scheduled, err
		}
		if err := uc.tasks.Enqueue(ctx, task); err != nil {
			return scheduled, fmt.Errorf("encolar analytics de %s: %w", t.OrgID, err)
		}
		scheduled++
	}
	uc.log.Info().Int("tenants", scheduled).Msg("recálculo de analytics programado")
	return scheduled, nil
}

// HandleRecomputeTask adapta Recompute al contrato de jobs.Handler.
func (uc *UseCase) HandleRecomputeTask(ctx context.Context, task *entity.Task) error {
	p, err := jobs.Decode[jobs.OrgPayload](task)
	if err != nil {
		return err
	}
	return uc.Recompute(ctx, p.OrgID)
}

// Recompute calcula y cachea las métricas del tenant y encola la recomendación IA.
func (uc *UseCase) Recompute(ctx context.Context, orgID string) error {
	appts, err := uc.appointments.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	reviews, err := uc.reviews.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	now := uc.now()
	cache := &entity.AnalyticsCache{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Metrics:   domainanalytics.ComputeMetrics(appts, reviews, now),
		UpdatedAt: now,
	}
	if err := uc.cache.Upsert(ctx, cache); err != nil {
		return err
	}
	task, err := jobs.NewTask(entity.TaskInsightGenerate, jobs.OrgPayload{OrgID: orgID}, now)
	if err != nil {
		return err
	}
	if err := uc.tasks.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("encolar recomendación: %w", err)
	}
	uc.log.Info().Str("org_id", orgID).Int("appointments", len(appts)).Msg("métricas recalculadas")
	return nil
}

// GetDashboardMetrics métricas cacheadas; nil si aún no se han calculado.
func (uc *UseCase) GetDashboardMetrics(ctx context.Context, orgID string) (*dto.DashboardMetricsDTO, error) {
	c, err := uc.cache.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	out := &dto.DashboardMetricsDTO{
		TotalRevenue:      c.Metrics.TotalRevenue,
		TotalAppointments: c.Metrics.TotalAppointments,
		AverageRating:     c.Metrics.AverageRating,
		RevenueForecast:   toForecastDTO(c.Metrics.RevenueForecast),
		UpdatedAt:         c.UpdatedAt,
	}
	return out, nil
}

// GetRevenueForecast pronóstico cacheado; nil si aún no se ha calculado.
func (uc *UseCase) GetRevenueForecast(ctx context.Context, orgID string) ([]dto.ForecastPointDTO, error) {
	c, err := uc.cache.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return toForecastDTO(c.Metrics.RevenueForecast), nil
}

// GenerateClientReport reporte de citas del tenant en el formato pedido (csv, xml, pdf).
func (uc *UseCase) GenerateClientReport(ctx context.Context, orgID, format string) (*dto.Report, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = DefaultReportFormat
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("formato de reporte no soportado %q: %w", format, domain.ErrInvalidInput)
	}
	tenant, err := uc.tenants.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	appts, err := uc.appointments.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	report := ports.ClientReport{TenantName: tenant.Name, GeneratedAt: now, Rows: make([]ports.ReportRow, 0, len(appts))}
	for _, a := range appts {
		report.Rows = append(report.Rows, ports.ReportRow{
			AppointmentDate: a.AppointmentTime,
			ClientName:      a.ClientName,
			Vehicle:         a.VehicleDescription,
			Price:           a.PriceOrZero(),
			Status:          a.Status,
		})
	}
	body, err := renderer.Render(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("renderizar reporte %s: %w", format, err)
	}
	return &dto.Report{
		Filename:    fmt.Sprintf("client-report-%s.%s", now.Format("2006-01-02"), format),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func toForecastDTO(points []entity.ForecastPoint) []dto.ForecastPointDTO {
	out := make([]dto.ForecastPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, dto.ForecastPointDTO{Month: p.Month, Revenue: p.Revenue})
	}
	return out
}
