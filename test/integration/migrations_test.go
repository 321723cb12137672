package integration

import (
	"testing"

	"github.com/fhuszti/assets-ms-go/internal/migration"
)

func TestMigrateUpIntegration(t *testing.T) {
	db := setupDB(t).DB

	// already applied by SetupTestDB, a second run must be a no-op
	if err := migration.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	for _, table := range []string{"assets", "exifs", "smart_infos"} {
		recs := -1
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&recs); err != nil {
			t.Fatalf("failed to query migrated table %s: %v", table, err)
		}
		if recs != 0 {
			t.Errorf("expected 0 rows in %s after migration, got %d", table, recs)
		}
	}
}
