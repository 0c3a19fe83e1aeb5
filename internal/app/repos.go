package app

import (
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/repos"
)

type Repos struct {
	Buyer       repos.BuyerRepo
	Seller      repos.SellerRepo
	Product     repos.ProductRepo
	Transaction repos.TransactionRepo
	Match       repos.MatchRepo
	ChurnSignal repos.ChurnSignalRepo
	Prediction  repos.PredictionRepo
	SellerScore repos.SellerScoreRepo
	IntelRun    repos.IntelRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Buyer:       repos.NewBuyerRepo(db, log),
		Seller:      repos.NewSellerRepo(db, log),
		Product:     repos.NewProductRepo(db, log),
		Transaction: repos.NewTransactionRepo(db, log),
		Match:       repos.NewMatchRepo(db, log),
		ChurnSignal: repos.NewChurnSignalRepo(db, log),
		Prediction:  repos.NewPredictionRepo(db, log),
		SellerScore: repos.NewSellerScoreRepo(db, log),
		IntelRun:    repos.NewIntelRunRepo(db, log),
	}
}
