// Package logging constructs the zap loggers shared by the dispatcher
// and engine.
package logging

import "go.uber.org/zap"

// Environment selects a logging preset.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// New builds a *zap.Logger for env. Development uses zap's human-
// readable console encoder; Production uses the JSON encoder suited to
// log aggregation.
func New(env Environment) (*zap.Logger, error) {
	switch env {
	case Production:
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
