package app

import (
	"fmt"

	"gorm.io/gorm"

	redisclient "github.com/botanex/marketplace-backend/internal/clients/redis"
	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/services"
)

type Services struct {
	Coordinator *services.RunCoordinator
	Intel       services.IntelService
	Market      services.MarketService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, locker redisclient.JobLocker) (Services, error) {
	log.Info("Wiring services...")

	weights, err := intel.LoadMatchWeights(cfg.WeightsFile)
	if err != nil {
		return Services{}, fmt.Errorf("load match weights: %w", err)
	}

	coordinator := services.NewRunCoordinator(db, log, locker, reposet.IntelRun, cfg.LockTTL)

	intelSvc, err := services.NewIntelService(log, services.IntelServiceDeps{
		DB:               db,
		Coordinator:      coordinator,
		Buyers:           reposet.Buyer,
		Sellers:          reposet.Seller,
		Products:         reposet.Product,
		Txns:             reposet.Transaction,
		Matches:          reposet.Match,
		Signals:          reposet.ChurnSignal,
		Predictions:      reposet.Prediction,
		Scores:           reposet.SellerScore,
		Runs:             reposet.IntelRun,
		Weights:          weights,
		ScorecardWeights: intel.DefaultScorecardWeights(),
		MaxParallel:      cfg.MaxParallel,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init intel service: %w", err)
	}

	marketSvc := services.NewMarketService(db, log, reposet.Transaction, reposet.Product)

	return Services{
		Coordinator: coordinator,
		Intel:       intelSvc,
		Market:      marketSvc,
	}, nil
}
