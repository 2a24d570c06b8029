// seed crea un tenant de demostración con su catálogo, agenda y suscripción de prueba,
// registra un administrador local e imprime tokens de desarrollo.
//
// Uso: go run ./cmd/seed [nombre del negocio]
// Lee .env si existe. Requiere DB_* o DATABASE_URL y JWT_SECRET.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/usecase"
	"github.com/jhoicas/slick-api/internal/infrastructure/catalog"
	"github.com/jhoicas/slick-api/internal/infrastructure/postgres"
	"github.com/jhoicas/slick-api/pkg/config"
	"github.com/jhoicas/slick-api/pkg/jwt"
	"github.com/jhoicas/slick-api/pkg/logger"
)

const seedAdminID = "user_seed_admin"

// localOrgs emite IDs de organización sin llamar al proveedor hospedado.
type localOrgs struct{}

func (localOrgs) CreateOrganization(_ context.Context, _, _ string) (string, error) {
	return "org_" + strings.ReplaceAll(uuid.New().String(), "-", ""), nil
}

func main() {
	_ = godotenv.Load()

	name := "Demo Detailing"
	if len(os.Args) > 1 {
		name = strings.Join(os.Args[1:], " ")
	}

	cfg, err := config.Load()
	if err != nil {
		fail("configuración", err)
	}
	log := logger.New(logger.Config{Service: "slick-seed", Env: "development", Level: cfg.App.LogLevel})
	ctx := context.Background()

	if _, err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		fail("migraciones", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, 1)
	if err != nil {
		fail("conexión a PostgreSQL", err)
	}
	defer pool.Close()

	services, err := catalog.DefaultServices()
	if err != nil {
		fail("catálogo", err)
	}

	users := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	if _, err := users.StoreUser(ctx, seedAdminID); err != nil {
		fail("usuario admin", err)
	}

	tenants := usecase.NewTenantUseCase(postgres.NewTxRunner(pool), postgres.NewTenantRepository(pool),
		localOrgs{}, services, nil, log.Component("seed"))
	created, err := tenants.Create(ctx, seedAdminID, dto.CreateTenantRequest{Name: name})
	if err != nil {
		fail("tenant", err)
	}

	detailer, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.Identity{
		UserID: "user_seed_detailer", OrgID: created.OrgID, OrgRole: "org:detailer", Name: "Detailer Demo",
	}, cfg.JWT.Expiration)
	if err != nil {
		fail("token detailer", err)
	}
	admin, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.Identity{
		UserID: seedAdminID, Role: "admin", Name: "Admin Demo",
	}, cfg.JWT.Expiration)
	if err != nil {
		fail("token admin", err)
	}

	fmt.Printf("tenant:   %s (%s)\n", name, created.OrgID)
	fmt.Printf("detailer: Bearer %s\n", detailer)
	fmt.Printf("admin:    Bearer %s\n", admin)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
