package database

import (
	"strings"
	"testing"
)

// Every constraint statement must survive a second boot against an already
// migrated database. Postgres rejects ALTER TABLE ... ADD CONSTRAINT IF NOT
// EXISTS outright, so uniqueness guards have to go through a DO block that
// swallows duplicate_object instead.
func TestConstraintStatementsAreIdempotent(t *testing.T) {
	if len(constraintStatements) == 0 {
		t.Fatal("expected constraint statements to be defined")
	}

	for i, stmt := range constraintStatements {
		if strings.Contains(stmt, "ADD CONSTRAINT IF NOT EXISTS") {
			t.Errorf("statement %d uses ADD CONSTRAINT IF NOT EXISTS, which Postgres rejects", i)
		}

		switch {
		case strings.Contains(stmt, "ADD CONSTRAINT"):
			if !strings.Contains(stmt, "duplicate_object") {
				t.Errorf("statement %d adds a constraint without a duplicate_object guard", i)
			}
		case strings.Contains(stmt, "CREATE INDEX"):
			if !strings.Contains(stmt, "IF NOT EXISTS") {
				t.Errorf("statement %d creates an index without IF NOT EXISTS", i)
			}
		default:
			t.Errorf("statement %d is neither a guarded constraint nor an index: %q", i, stmt)
		}
	}
}

func TestConstraintStatementsCoverSeatGuards(t *testing.T) {
	all := strings.Join(constraintStatements, "\n")
	for _, name := range []string{"uniq_ticket_seat", "uniq_showtime_seat"} {
		if !strings.Contains(all, name) {
			t.Errorf("expected constraint %s to be declared", name)
		}
	}
}
