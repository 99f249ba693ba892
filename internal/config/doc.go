// Package config defines the application configuration structure and
// loads it from environment variables (CRAM_ prefix) and an optional
// config file, with validation via go-playground/validator.
package config
