package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainErrorNil(t *testing.T) {
	if got := ToDomainError(nil); got != nil {
		t.Errorf("ToDomainError(nil) = %v, want nil", got)
	}
}

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewNotFound("ticket", map[string]any{"ticket_id": int64(7)})
	wrapped := fmt.Errorf("lookup: %w", original)

	got := ToDomainError(wrapped)
	if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
		t.Errorf("wrapped DomainError lost identity: %+v", got)
	}
	if got.Details["ticket_id"] != int64(7) {
		t.Errorf("details dropped: %+v", got.Details)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	got := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
		t.Errorf("ErrNoRows mapped to %+v, want NOT_FOUND/404", got)
	}
}

func TestToDomainErrorPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key"}
	got := ToDomainError(fmt.Errorf("insert: %w", pgErr))
	if got.Code != "STORAGE_ERROR" || got.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("PgError mapped to %+v, want STORAGE_ERROR/503", got)
	}
	if got.Details["pg_code"] != "23505" {
		t.Errorf("pg_code detail missing: %+v", got.Details)
	}
}

func TestToDomainErrorDeadline(t *testing.T) {
	got := ToDomainError(fmt.Errorf("acquire: %w", context.DeadlineExceeded))
	if got.Code != "STORAGE_ERROR" {
		t.Errorf("deadline mapped to %+v, want STORAGE_ERROR", got)
	}
}

func TestToDomainErrorUnknown(t *testing.T) {
	got := ToDomainError(errors.New("boom"))
	if got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unknown error mapped to %+v, want INTERNAL_ERROR/500", got)
	}
	if !errors.Is(got, got.Err) {
		t.Error("original error not preserved in Err")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewNotFound("ticket", nil)) {
		t.Error("IsNotFound rejected a NOT_FOUND error")
	}
	if IsNotFound(NewValidationError("nope", nil)) {
		t.Error("IsNotFound accepted a validation error")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound accepted nil")
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := NewStorageError(inner)
	if !errors.Is(err, inner) {
		t.Error("StorageError does not unwrap to its cause")
	}
}
