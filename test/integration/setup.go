package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/credo/api/internal/adapters/handler/http"
	repo "github.com/credo/api/internal/adapters/repository/postgres"
	"github.com/credo/api/internal/core/services"
)

type noopMailer struct{}

func (noopMailer) SendConfirmationEmail(ctx context.Context, userID uuid.UUID, email string) error {
	return nil
}

const (
	pgImage    = "postgres:15-alpine"
	pgDatabase = "credo_test"
	pgUser     = "credo"
	pgPassword = "credo"

	migrationsDir = "../../internal/adapters/repository/postgres/migrations"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	DBContainer testcontainers.Container
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, pgImage,
		postgres.WithDatabase(pgDatabase),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("resolve connection string: %w", err)
	}
	return container, connStr, nil
}

// applyMigrations runs every up migration in filename order, relying on the
// numeric prefixes of the files under migrationsDir.
func applyMigrations(db *sql.DB) error {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func setupAuthTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := startPostgres(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	accessSigner, err := services.NewTokenService(services.PurposeAccess, []byte("access-secret"), 15*time.Minute)
	require.NoError(t, err)
	refreshSigner, err := services.NewTokenService(services.PurposeRefresh, []byte("refresh-secret"), 7*24*time.Hour)
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	refreshRepo := repo.NewRefreshTokenRepository(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authSvc := services.NewAuthService(userRepo, refreshRepo, accessSigner, refreshSigner, noopMailer{}, logger)
	userSvc := services.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authSvc, refreshSigner)
	userHandler := handler.NewUserHandler(userSvc)
	router := handler.NewHandler(authHandler, userHandler, accessSigner)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}
