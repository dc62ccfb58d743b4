// Package config loads runtime configuration for the optimizer from
// multiple sources (YAML files, environment variables, CLI flags) with
// precedence: CLI flags > YAML config > Environment variables > Defaults.
// It exposes strongly typed scoring, solver, and batch settings to the rest
// of the application.
package config
