package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hiringbull/server/config"
	"github.com/hiringbull/server/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the persistence boundary handed to the app wiring.
type Storage interface {
	Init() error
	Close() error
	GetDB() interface{}
	HealthCheck() error
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open GORM connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// Identity-synced users and their devices
		&model.User{},
		&model.Device{},

		// Aggregated content
		&model.Company{},
		&model.Job{},
		&model.SocialPost{},
		&model.Comment{},

		// Payment flow
		&model.Payment{},

		// Identity webhook audit trail
		&model.WebhookEvent{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in handlers/services
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreatePayment inserts a new PENDING payment row.
func (s *GORMStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// PaymentByOrderID looks up a payment by its gateway order id.
func (s *GORMStore) PaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// CompletePayment transitions a PENDING payment to SUCCESS and activates the
// user's subscription in a single transaction. The status predicate makes the
// transition a compare-and-swap: a payment that is already terminal matches
// zero rows and the user row is left untouched. Returns whether the
// transition was applied.
func (s *GORMStore) CompletePayment(ctx context.Context, orderID, paymentID, signature, userID string, expiry time.Time) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Payment{}).
			Where("order_id = ? AND status = ?", orderID, model.PaymentStatusPending).
			Updates(map[string]interface{}{
				"payment_id": paymentID,
				"signature":  signature,
				"status":     model.PaymentStatusSuccess,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"is_paid":     true,
				"plan_expiry": expiry,
			}).Error
	})
	return applied, err
}

// FailPayment transitions a PENDING payment to FAILED. A payment that already
// reached SUCCESS is never regressed.
func (s *GORMStore) FailPayment(ctx context.Context, orderID string) error {
	return s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("order_id = ? AND status = ?", orderID, model.PaymentStatusPending).
		Update("status", model.PaymentStatusFailed).Error
}
