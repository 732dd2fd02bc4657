package config

import (
	"errors"
	"fmt"
	"slices"
)

// validate reports every problem at once, joined
func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.Driver == "postgres" || db.Driver == "sqlite",
		"database.driver must be postgres or sqlite, got %q", db.Driver)
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	switch c.Storage.Driver {
	case "local":
	case "s3", "gcs":
		check(c.Storage.Bucket != "", "storage.bucket is required for the %s driver", c.Storage.Driver)
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be s3, gcs or local, got %q", c.Storage.Driver))
	}

	up := c.Upload
	check(up.MaxImageKB > 0 && up.MaxFileKB > 0 && up.MaxLogoKB > 0, "upload size limits must be positive")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)

	if c.IsProduction() {
		errs = append(errs, c.validateProduction()...)
	}
	return errors.Join(errs...)
}

func (c *Config) validateProduction() []error {
	var errs []error
	switch {
	case c.JWT.Secret == "":
		errs = append(errs, errors.New("jwt.secret is required in production"))
	case len(c.JWT.Secret) < 32:
		errs = append(errs, errors.New("jwt.secret must be at least 32 characters in production"))
	}
	if c.JWT.AllowTeamHeader {
		errs = append(errs, errors.New("jwt.allow_team_header must be false in production"))
	}
	if c.Database.Driver != "postgres" {
		errs = append(errs, errors.New("database.driver must be postgres in production"))
	}
	if c.Database.SSLMode == "disable" {
		errs = append(errs, errors.New("database.sslmode cannot be 'disable' in production"))
	}
	if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
		errs = append(errs, errors.New("http.cors_allow_origins cannot be '*' in production"))
	}
	if c.Telemetry.DBLogFullSQL {
		errs = append(errs, errors.New("telemetry.db_log_full_sql must be false in production"))
	}
	return errs
}
