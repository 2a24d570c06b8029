package analytics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/application/analytics"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/infrastructure/memory"
	"github.com/jhoicas/slick-api/internal/infrastructure/report"
)

const orgID = "org_shine"

func newUseCase(store *memory.Store) *analytics.UseCase {
	return analytics.NewUseCase(
		store.Tenants(), store.Appointments(), store.Reviews(), store.AnalyticsCache(), store.Tasks(),
		[]ports.ReportRenderer{report.NewCSVRenderer(), report.NewXMLRenderer()},
		zerolog.Nop(),
	)
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{ID: "t1", Name: "Shine Co", OrgID: orgID}))
	p1, p2 := decimal.RequireFromString("200"), decimal.RequireFromString("100.50")
	when := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Appointments().Create(ctx, &entity.Appointment{
		ID: "ap1", AssessmentID: "as1", OrgID: orgID, ClientName: "Ana Pérez", VehicleDescription: "2020 Toyota Corolla",
		AppointmentTime: when, Status: entity.AppointmentCompleted, Price: &p1,
	}))
	require.NoError(t, store.Appointments().Create(ctx, &entity.Appointment{
		ID: "ap2", AssessmentID: "as2", OrgID: orgID, ClientName: "Luis, el del taxi", VehicleDescription: "2018 Honda Civic",
		AppointmentTime: when.Add(24 * time.Hour), Status: entity.AppointmentBooked, Price: &p2,
	}))
	require.NoError(t, store.Reviews().Create(ctx, &entity.Review{ID: "r1", AppointmentID: "ap1", OrgID: orgID, Rating: 5}))
	require.NoError(t, store.Reviews().Create(ctx, &entity.Review{ID: "r2", AppointmentID: "ap2", OrgID: orgID, Rating: 4}))
}

func kinds(tasks []entity.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Kind)
	}
	return out
}

func TestScheduleAll_UnaTareaPorTenant(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{ID: "t1", OrgID: "org_a"}))
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{ID: "t2", OrgID: "org_b"}))

	n, err := newUseCase(store).ScheduleAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{entity.TaskAnalyticsRecompute, entity.TaskAnalyticsRecompute}, kinds(store.Tasks().All()))
}

func TestRecompute_CacheaMetricasYEncolaRecomendacion(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	uc := newUseCase(store)
	ctx := context.Background()

	none, err := uc.GetDashboardMetrics(ctx, orgID)
	require.NoError(t, err)
	assert.Nil(t, none, "sin recálculo no hay métricas")

	require.NoError(t, uc.Recompute(ctx, orgID))

	m, err := uc.GetDashboardMetrics(ctx, orgID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "300.50", m.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, m.TotalAppointments)
	assert.Equal(t, "4.5", m.AverageRating.String())
	assert.Len(t, m.RevenueForecast, 3)

	forecast, err := uc.GetRevenueForecast(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, m.RevenueForecast, forecast)

	assert.Equal(t, []string{entity.TaskInsightGenerate}, kinds(store.Tasks().All()))
}

func TestGetRevenueForecast_SinCache_Nil(t *testing.T) {
	forecast, err := newUseCase(memory.NewStore()).GetRevenueForecast(context.Background(), orgID)

	require.NoError(t, err)
	assert.Nil(t, forecast)
}

func TestGenerateClientReport_CSVPorDefecto(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)

	rep, err := newUseCase(store).GenerateClientReport(context.Background(), orgID, "")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rep.Filename, "client-report-"))
	assert.True(t, strings.HasSuffix(rep.Filename, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", rep.ContentType)
	lines := strings.Split(strings.TrimSpace(string(rep.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "AppointmentDate,ClientName,Vehicle,Price,Status", lines[0])
	assert.Contains(t, string(rep.Body), `2026-05-03,"Luis, el del taxi",2018 Honda Civic,100.50,booked`)
}

func TestGenerateClientReport_XML(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)

	rep, err := newUseCase(store).GenerateClientReport(context.Background(), orgID, " XML ")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rep.Filename, ".xml"))
	assert.Equal(t, "application/xml", rep.ContentType)
	assert.Contains(t, string(rep.Body), "Shine Co")
}

func TestGenerateClientReport_Errores(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	uc := newUseCase(store)

	_, err := uc.GenerateClientReport(context.Background(), orgID, "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GenerateClientReport(context.Background(), "org_otro", "csv")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
