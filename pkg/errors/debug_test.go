package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpTypedErrorChain(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := fmt.Errorf("place order: %w", Wrap(CodeDependency, cause, "submit order"))

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if d.HTTPStatus != http.StatusServiceUnavailable || !d.Retryable {
		t.Fatalf("unexpected metadata in dump %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	if _, ok := d.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted without a postgres error")
	}
}

func TestDumpPostgresErrors(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "order_submissions_pkey", TableName: "order_submissions"}
	d := Dump(Wrap(CodeInternal, pgxErr, "insert submission"))
	if d.PGCode != "23505" || d.PGConstraint != "order_submissions_pkey" {
		t.Fatalf("pgx fields not captured: %+v", d)
	}

	pqErr := &pq.Error{Code: "40001", Table: "order_submissions", Message: "serialization failure"}
	d = Dump(fmt.Errorf("update: %w", pqErr))
	if d.PGCode != "40001" || d.PGMessage != "serialization failure" {
		t.Fatalf("pq fields not captured: %+v", d)
	}
	if d.Fields()["pg_table"] != "order_submissions" {
		t.Fatalf("expected pg_table in fields")
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump for nil error, got %+v", d)
	}
}
