package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection and pool parameters for the
// spawn point store. URL, when set, overrides the individual fields.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns        int32         `yaml:"max_conns"` // 0 = pgx default
	MinConns        int32         `yaml:"min_conns"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// DSN returns the PostgreSQL connection string. Credentials are escaped.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.DBName,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Validate checks the fields needed to open a pool.
func (d DatabaseConfig) Validate() error {
	var errs []error
	if d.URL == "" {
		if d.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if d.Port <= 0 || d.Port > 65535 {
			errs = append(errs, fmt.Errorf("database.port %d out of range", d.Port))
		}
		if d.DBName == "" {
			errs = append(errs, errors.New("database.dbname is required"))
		}
	}
	if d.MaxConns < 0 || d.MinConns < 0 {
		errs = append(errs, errors.New("database pool sizes must not be negative"))
	}
	if d.MaxConns > 0 && d.MinConns > d.MaxConns {
		errs = append(errs, fmt.Errorf("database.min_conns %d exceeds max_conns %d", d.MinConns, d.MaxConns))
	}
	return errors.Join(errs...)
}
