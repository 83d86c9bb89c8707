package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-site/backend"
)

type Database struct {
	projectRepo        *ProjectRepo
	contactMessageRepo *ContactMessageRepo
}

// New builds the typed repositories on top of any backend client
func New(client backend.Client) Database {
	return Database{
		projectRepo:        NewProjectRepo(client),
		contactMessageRepo: NewContactMessageRepo(client),
	}
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContactMessageRepo() *ContactMessageRepo {
	return d.contactMessageRepo
}

// ConnectionString builds a Supabase Postgres DSN from its parts
func ConnectionString(host, user, password, name, port string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		host, user, password, name, port)
}

// Open connects to Postgres. When replicaDSN is set, reads are routed to the
// replica and writes stay on the primary.
func Open(dsn, replicaDSN string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if replicaDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{dialector(replicaDSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto extension: %w", err)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

// Supabase's pooler runs in transaction mode, which rejects prepared statements
func dialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}
