package audit

import (
	"reflect"
	"testing"
)

func TestBuildQueryWithoutFilter(t *testing.T) {
	query, args := buildQuery("SELECT COUNT(1)", Filter{})
	if query != "SELECT COUNT(1) FROM audit_events WHERE 1=1" {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildQueryNumbersPlaceholdersInOrder(t *testing.T) {
	query, args := buildQuery("SELECT id", Filter{EntityType: EntityPayslip, Actor: "hr@example.com"})
	want := "SELECT id FROM audit_events WHERE 1=1 AND entity_type = $1 AND actor = $2"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if !reflect.DeepEqual(args, []any{EntityPayslip, "hr@example.com"}) {
		t.Fatalf("unexpected args %v", args)
	}
}
