package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/config"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Staff logins
		&entity.User{},

		// Master data
		&entity.Patient{},
		&entity.Account{},
		&entity.PatientLedger{},

		// Ledger transactions
		&entity.Voucher{},
		&entity.VoucherEntry{},
		&entity.VoucherSequence{},

		// Receivables
		&entity.OutstandingInvoice{},
		&entity.PaymentTransaction{},
		&entity.PaymentAllocation{},
		&entity.AgingSnapshot{},

		// External bookkeeping sync
		&entity.ExternalSyncConfig{},
		&entity.ExternalSyncRun{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// defaultAccounts is the chart every fresh installation starts with. Codes for
// cash, bank and patient receivables must line up with the LEDGER_* settings.
var defaultAccounts = []entity.Account{
	{Code: "1000", Name: "Cash in Hand", Type: enum.AccountTypeAsset},
	{Code: "1010", Name: "Bank Account", Type: enum.AccountTypeAsset},
	{Code: "1100", Name: "Patient Receivables", Type: enum.AccountTypeAsset},
	{Code: "2000", Name: "Accounts Payable", Type: enum.AccountTypeLiability},
	{Code: "3000", Name: "Capital", Type: enum.AccountTypeEquity},
	{Code: "4000", Name: "Consultation Income", Type: enum.AccountTypeIncome},
	{Code: "4010", Name: "Pharmacy Income", Type: enum.AccountTypeIncome},
	{Code: "4020", Name: "Laboratory Income", Type: enum.AccountTypeIncome},
	{Code: "4030", Name: "Ward Income", Type: enum.AccountTypeIncome},
	{Code: "5000", Name: "Salaries Expense", Type: enum.AccountTypeExpense},
	{Code: "5010", Name: "Medical Supplies Expense", Type: enum.AccountTypeExpense},
}

// SeedDefaultData seeds the database with the default chart of accounts, a
// disabled sync configuration and, when configured, an admin user.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Default chart of accounts
	for i := range defaultAccounts {
		var existing entity.Account
		if err := db.Where("code = ?", defaultAccounts[i].Code).First(&existing).Error; err != nil {
			account := defaultAccounts[i]
			account.Active = true
			if err := db.Create(&account).Error; err != nil {
				log.Printf("Warning: failed to create account %s: %v", account.Code, err)
			}
		}
	}

	// Single sync configuration row, disabled until an admin fills it in
	var syncCfg entity.ExternalSyncConfig
	if err := db.First(&syncCfg).Error; err != nil {
		syncCfg = entity.ExternalSyncConfig{
			Host:          "localhost",
			Port:          9000,
			SyncEnabled:   false,
			SyncFrequency: enum.SyncFrequencyManual,
		}
		if err := db.Create(&syncCfg).Error; err != nil {
			log.Printf("Warning: failed to create sync configuration: %v", err)
		}
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			// Hash the password
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Administrator"
				}
				// Split admin name into first and last name
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					ID:        uuid.New(),
					FirstName: firstName,
					LastName:  lastName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      "admin",
					Active:    true,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
