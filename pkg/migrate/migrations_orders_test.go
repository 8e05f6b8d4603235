package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOrdersMigrationKeepsSnapshotSemantics(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE orders",
		"user_id uuid REFERENCES users (id) ON DELETE SET NULL",
		"shipping_address jsonb NOT NULL",
		"order_id uuid NOT NULL REFERENCES orders (id) ON DELETE CASCADE",
		"product_id uuid REFERENCES products (id) ON DELETE SET NULL",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS order_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUsersMigrationEnforcesUniqueEmail(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_users.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no users migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "CREATE UNIQUE INDEX idx_users_email ON users (email)") {
		t.Errorf("users migration must keep the unique email index")
	}
}
