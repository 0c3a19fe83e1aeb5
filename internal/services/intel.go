package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/repos"
	"github.com/botanex/marketplace-backend/internal/types"
)

var ErrNotFound = errors.New("not found")

type MatchRunResult struct {
	ProductsScanned  int  `json:"products_scanned"`
	MatchesGenerated int  `json:"matches_generated"`
	Errors           int  `json:"errors"`
	Skipped          bool `json:"skipped"`
}

type ChurnRunResult struct {
	SignalsCreated int  `json:"signals_created"`
	SignalsUpdated int  `json:"signals_updated"`
	Errors         int  `json:"errors"`
	Skipped        bool `json:"skipped"`
}

type PredictionRunResult struct {
	PredictionsWritten int  `json:"predictions_written"`
	Errors             int  `json:"errors"`
	Skipped            bool `json:"skipped"`
}

type SellerRunResult struct {
	SellersUpdated int  `json:"sellers_updated"`
	Errors         int  `json:"errors"`
	Skipped        bool `json:"skipped"`
}

// IntelService is the buyer-seller intelligence engine: batch scoring jobs
// plus the read surface the UI consumes. All batch operations are
// synchronous: a manual trigger blocks until the run completes and returns
// its counts.
type IntelService interface {
	GenerateMatches(ctx context.Context, productID *uuid.UUID) (MatchRunResult, error)
	RunChurnDetection(ctx context.Context) (ChurnRunResult, error)
	RunReorderPrediction(ctx context.Context) (PredictionRunResult, error)
	RecalculateSellerScores(ctx context.Context) (SellerRunResult, error)

	GetMatches(ctx context.Context, filter repos.MatchFilter) ([]*types.Match, int64, error)
	DismissMatch(ctx context.Context, id uuid.UUID) error
	GetAtRiskBuyers(ctx context.Context, minRiskLevel string, limit int) ([]*types.ChurnSignal, error)
	GetPredictions(ctx context.Context, withinDays int, predictionType string) ([]*types.PredictionRecord, error)
	GetSellerScore(ctx context.Context, sellerID uuid.UUID) (*types.SellerScore, error)
	GetDashboard(ctx context.Context) (*IntelDashboard, error)
}

type intelService struct {
	db          *gorm.DB
	log         *logger.Logger
	coord       *RunCoordinator
	buyers      repos.BuyerRepo
	sellers     repos.SellerRepo
	products    repos.ProductRepo
	txns        repos.TransactionRepo
	matches     repos.MatchRepo
	signals     repos.ChurnSignalRepo
	predictions repos.PredictionRepo
	scores      repos.SellerScoreRepo
	runs        repos.IntelRunRepo

	weights          intel.MatchWeights
	scorecardWeights intel.ScorecardWeights
	maxParallel      int
}

type IntelServiceDeps struct {
	DB          *gorm.DB
	Coordinator *RunCoordinator
	Buyers      repos.BuyerRepo
	Sellers     repos.SellerRepo
	Products    repos.ProductRepo
	Txns        repos.TransactionRepo
	Matches     repos.MatchRepo
	Signals     repos.ChurnSignalRepo
	Predictions repos.PredictionRepo
	Scores      repos.SellerScoreRepo
	Runs        repos.IntelRunRepo

	Weights          intel.MatchWeights
	ScorecardWeights intel.ScorecardWeights
	MaxParallel      int
}

// NewIntelService validates the scoring configuration once; invalid weights
// are a startup failure, never a mid-run one.
func NewIntelService(baseLog *logger.Logger, deps IntelServiceDeps) (IntelService, error) {
	if err := deps.Weights.Validate(); err != nil {
		return nil, err
	}
	if err := deps.ScorecardWeights.Validate(); err != nil {
		return nil, err
	}
	maxParallel := deps.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &intelService{
		db:               deps.DB,
		log:              baseLog.With("service", "IntelService"),
		coord:            deps.Coordinator,
		buyers:           deps.Buyers,
		sellers:          deps.Sellers,
		products:         deps.Products,
		txns:             deps.Txns,
		matches:          deps.Matches,
		signals:          deps.Signals,
		predictions:      deps.Predictions,
		scores:           deps.Scores,
		runs:             deps.Runs,
		weights:          deps.Weights,
		scorecardWeights: deps.ScorecardWeights,
		maxParallel:      maxParallel,
	}, nil
}
