// Package health checks the dependencies the server needs to answer requests.
package health

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const defaultTimeout = 2 * time.Second

// CheckDatabase pings the connection pool behind conn. A zero timeout uses
// the default.
func CheckDatabase(ctx context.Context, conn *gorm.DB, timeout time.Duration) error {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := conn.DB()

	if err != nil {
		return fmt.Errorf("failed to get database handle: %v", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	return nil
}
