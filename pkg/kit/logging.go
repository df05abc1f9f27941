package kit

import "go.uber.org/zap"

// NewLogger builds the service logger. Development gets the console
// encoder, everything else logs JSON.
func NewLogger(service, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]any{"service": service, "env": env}
	l, _ := cfg.Build()
	return l
}
