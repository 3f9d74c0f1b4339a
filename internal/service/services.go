package service

import (
	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/crypto"
	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/internal/store"
)

type Services struct {
	AuthService AuthService
	GoalService GoalService
}

func NewServices(storages store.Storages, keyChain crypto.KeyChainService, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, keyChain, cfg.App, logger),
		GoalService: NewGoalValidationService().
			Wrap(NewGoalService(storages.GoalRecordRepository, keyChain, cfg.Level, logger)),
	}
}
