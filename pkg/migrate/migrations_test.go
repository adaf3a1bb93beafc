package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/appnutry/nutry-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestPlansMigrationDefinesDerivedDateColumns(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_plans.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no plans migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE plan_type AS ENUM",
		"'MONTHLY', 'QUARTERLY', 'SEMIANNUAL', 'ANNUAL', 'ONE_OFF'",
		"end_date          date",
		"next_payment_date date",
		"DROP TABLE plans",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentsMigrationAllowsOrphanedPatient(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_payments_expenses.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no payments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "patient_id  uuid REFERENCES patients (id) ON DELETE SET NULL") {
		t.Error("payments.patient_id should null out when the patient is deleted")
	}
	if !strings.Contains(content, "numeric(12,2) NOT NULL") {
		t.Error("amounts should use numeric(12,2)")
	}
}
