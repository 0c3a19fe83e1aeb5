package app

import (
	"time"

	"github.com/botanex/marketplace-backend/internal/jobs"
	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/utils"
)

type Config struct {
	HTTPAddr       string
	AdminJWTSecret string
	WeightsFile    string
	MaxParallel    int
	LockTTL        time.Duration
	TracingEnabled bool
	Schedule       jobs.ScheduleConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		HTTPAddr:       utils.GetEnv("HTTP_ADDR", ":8080", log),
		AdminJWTSecret: utils.GetEnv("ADMIN_JWT_SECRET", "defaultsecret", log),
		WeightsFile:    utils.GetEnv("INTEL_WEIGHTS_FILE", "", log),
		MaxParallel:    utils.GetEnvAsInt("INTEL_MAX_PARALLEL", 8, log),
		LockTTL:        time.Duration(utils.GetEnvAsInt("INTEL_LOCK_TTL_SECONDS", 600, log)) * time.Second,
		TracingEnabled: utils.GetEnv("TRACING_ENABLED", "false", log) == "true",
		Schedule: jobs.ScheduleConfig{
			MatchGeneration:   time.Duration(utils.GetEnvAsInt("INTEL_MATCH_INTERVAL_MINUTES", 360, log)) * time.Minute,
			ChurnDetection:    time.Duration(utils.GetEnvAsInt("INTEL_CHURN_INTERVAL_MINUTES", 720, log)) * time.Minute,
			ReorderPrediction: time.Duration(utils.GetEnvAsInt("INTEL_PREDICTION_INTERVAL_MINUTES", 720, log)) * time.Minute,
			SellerScoring:     time.Duration(utils.GetEnvAsInt("INTEL_SELLER_INTERVAL_MINUTES", 1440, log)) * time.Minute,
		},
	}
}
