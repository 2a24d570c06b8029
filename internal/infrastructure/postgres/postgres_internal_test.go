package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/pkg/config"
)

func TestMigrateURL_EsquemaPgx5(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/slick?sslmode=disable", migrateURL("postgres://u:p@db:5432/slick?sslmode=disable"))
	assert.Equal(t, "pgx5://u:p@db/slick", migrateURL("postgresql://u:p@db/slick"))
	assert.Equal(t, "pgx5://ya/adaptada", migrateURL("pgx5://ya/adaptada"))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isUniqueViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("conexión rechazada")))
}

func TestJSONB_IdaYVuelta(t *testing.T) {
	type addon struct {
		Name string `json:"name"`
	}
	raw, err := toJSONB([]addon{{Name: "Ceramic Coating"}})
	require.NoError(t, err)

	var out []addon
	require.NoError(t, fromJSONB(raw, &out))
	assert.Equal(t, []addon{{Name: "Ceramic Coating"}}, out)

	keep := []addon{{Name: "sin tocar"}}
	require.NoError(t, fromJSONB(nil, &keep))
	assert.Equal(t, "sin tocar", keep[0].Name)

	assert.Error(t, fromJSONB([]byte("{"), &out))
}

func TestNewPoolConfig_TamanoSegunWorkers(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "slick", DBName: "slick", SSLMode: "disable", MinConns: 1}

	pc, err := newPoolConfig(db, 4)

	require.NoError(t, err)
	assert.Equal(t, int32(4+httpConnHeadroom), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_MaxConnsExplicito(t *testing.T) {
	db := config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/slick", MaxConns: 3, MinConns: 8}

	pc, err := newPoolConfig(db, 20)

	require.NoError(t, err)
	assert.Equal(t, int32(3), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns, "min no supera max")
}

func TestPoolSize_SinWorkers(t *testing.T) {
	assert.Equal(t, int32(1+httpConnHeadroom), PoolSize(config.DBConfig{}, 0))
}
