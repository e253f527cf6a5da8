package health

import (
	"context"
	"testing"

	"github.com/monocle-dev/taskboard/internal/testkit"
)

func TestCheckDatabase(t *testing.T) {
	conn := testkit.OpenDB(t)

	if err := CheckDatabase(context.Background(), conn, 0); err != nil {
		t.Fatalf("CheckDatabase on open db: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	if err := CheckDatabase(context.Background(), conn, 0); err == nil {
		t.Fatal("expected error after close")
	}
}
