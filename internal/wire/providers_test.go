package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/entity"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = "ai-doc-platform-api"
	cfg.App.Version = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "wire.db")
	cfg.Security.JWT = config.JWTConfig{AuthDisabled: true, DevUserID: "dev-user"}
	return cfg
}

func TestProvideStoreSQLite(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := ProvideStore(ctx, sqliteConfig(t))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, config.DriverSQLite, store.Driver)
	assert.Nil(t, store.Postgres)
	require.NoError(t, store.Health.HealthCheck(ctx))

	p := entity.NewProject("owner", "Report", entity.DocumentTypeDocx, "topic")
	require.NoError(t, ProvideProjectRepository(store).Create(ctx, p))
	got, err := store.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Report", got.Title)
}

func TestProvideStoreUnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Driver = "mysql"
	_, _, err := ProvideStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "mysql")
}

func TestRedisDisabledYieldsNilDependencies(t *testing.T) {
	cfg := sqliteConfig(t)
	client, cleanup, err := ProvideRedisClientOptional(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, client)
	assert.Nil(t, ProvideRateLimiterOptional(client))
	assert.Nil(t, ProvideSectionEventPublisherOptional(client, cfg))
}

func TestInitializeAppOffline(t *testing.T) {
	r, cleanup, err := InitializeApp(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/projects", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
