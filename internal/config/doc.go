// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Variables may come from the process environment or from an optional .env file
// loaded before the YAML is expanded; the process environment wins.
package config
