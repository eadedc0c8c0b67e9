package sqlconnect

import (
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/config"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

var DB *sql.DB

// DSN builds the driver connection string. Times are read and written in UTC.
func DSN(c config.DatabaseConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

func ConnectDb(c config.DatabaseConfig) error {
	if DB != nil {
		return nil
	}

	utils.Logger.WithField("addr", net.JoinHostPort(c.Host, c.Port)).Info("Connecting to MySQL...")

	var err error
	DB, err = sql.Open("mysql", DSN(c))
	if err != nil {
		return fmt.Errorf("failed to open DB connection: %w", err)
	}
	if c.MaxOpenConns > 0 {
		DB.SetMaxOpenConns(c.MaxOpenConns)
	}
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping DB: %w", err)
	}

	utils.Logger.Info("Connected to MySQL")
	return nil
}
