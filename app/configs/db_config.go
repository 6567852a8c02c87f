package configs

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Dialector(env ENV) (gorm.Dialector, error) {
	switch env.DBDriver {
	case "mysql", "":
		cfg := mysqldriver.NewConfig()
		cfg.User = env.DBUser
		cfg.Passwd = env.DBPassword
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(env.DBHost, env.DBPort)
		cfg.DBName = env.DBName
		cfg.ParseTime = true
		cfg.Loc = time.Local
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(cfg.FormatDSN()), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			env.DBHost,
			env.DBPort,
			env.DBUser,
			env.DBPassword,
			env.DBName,
		)
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	case "sqlite":
		name := env.DBName
		if name == "" {
			name = "cartridge.db"
		}
		return sqlite.Open(name), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	maxRetries := 10
	retryDelay := 5 * time.Second
	if env.DBDriver == "sqlite" {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Printf("Attempting to connect to %s database (Attempt %d/%d)", dialector.Name(), i+1, maxRetries)
		db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Println("✅ Database connection successful!")
					return db, nil
				}
			}
			lastErr = pingErr
			log.Printf("❌ Failed to ping database: %v. Retrying in %v...", pingErr, retryDelay)
		} else {
			lastErr = err
			log.Printf("❌ Failed to open GORM connection: %v. Retrying in %v...", err, retryDelay)
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d attempts: %w", maxRetries, lastErr)
}
