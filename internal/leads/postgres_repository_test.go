package leads

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/silentequity/lead-intake/internal/database"
	"github.com/silentequity/lead-intake/pkg/logging"
)

func TestPostgresRepositoryEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithExec(mock)

	for i := 0; i < 2; i++ {
		mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pgcrypto").WillReturnResult(pgxmock.NewResult("CREATE EXTENSION", 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS leads").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		if err := repo.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("ensure schema call %d failed: %v", i+1, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryEnsureSchemaStopsOnExtensionError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithExec(mock)
	mock.ExpectExec("CREATE EXTENSION").WillReturnError(errors.New("permission denied"))

	if err := repo.EnsureSchema(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithExec(mock)

	now := time.Now().UTC()
	id := "6f1c7f3e-8a57-4a58-9d0c-5b0f1f3b2a11"
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs("coc", "$249", "Jane Doe", "jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	lead, err := repo.Insert(context.Background(), Submission{
		Service:  "coc",
		Price:    "$249",
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if lead.ID != id || !lead.CreatedAt.Equal(now) {
		t.Fatalf("expected storage-assigned id/time, got %+v", lead)
	}
	if lead.FullName != "Jane Doe" || lead.Price != "$249" {
		t.Fatalf("unexpected lead %+v", lead)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryInsertEmptyFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithExec(mock)
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs("", "", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("id-empty", time.Now()))

	if _, err := repo.Insert(context.Background(), Submission{}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryThroughHandler(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	handler := NewHandler(newPostgresRepositoryWithExec(mock), logging.Default())

	mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pgcrypto").WillReturnResult(pgxmock.NewResult("CREATE EXTENSION", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS leads").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs("edge", "$149", "Sam", "sam@example.com").
		WillReturnError(errors.New("connection reset"))

	rec := postLead(handler, `{"service":"edge","price":"$149","fullName":"Sam","email":"sam@example.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLazyRepositoryNotConfigured(t *testing.T) {
	repo := NewLazyPostgresRepository(database.NewLazyPool("", 0))

	if err := repo.EnsureSchema(context.Background()); !errors.Is(err, database.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := repo.Insert(context.Background(), Submission{}); !errors.Is(err, database.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
