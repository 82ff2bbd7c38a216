package postgres

import (
	"time"

	_ "github.com/lib/pq"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects GORM through the lib/pq driver, so that pq array types can be
// used in DTOs and query arguments.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(
		gormpg.New(gormpg.Config{DriverName: "postgres", DSN: dsn}),
		&gorm.Config{
			Logger:  logger.Default.LogMode(logger.Warn),
			NowFunc: func() time.Time { return time.Now().UTC() },
		},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
