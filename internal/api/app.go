package api

import (
	"context"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/config"
	"github.com/hrcadm/sleeptracker/internal/storage"
	"github.com/hrcadm/sleeptracker/internal/token"
)

type App interface {
	Logger() internal.Logger
	Config() *config.Config
	Tokens() *token.Service
	Users() storage.UserRepository
	Sleep() storage.SleepRepository
	Logs() storage.LogRepository
	StorageStatus(ctx context.Context) internal.StorageStatus
}

type app struct {
	logger internal.Logger
	cfg    *config.Config
	tokens *token.Service
	store  storage.Store
}

func NewApp(cfg *config.Config, logger internal.Logger, store storage.Store, tokens *token.Service) App {
	return &app{logger: logger, cfg: cfg, tokens: tokens, store: store}
}

func (a *app) Logger() internal.Logger        { return a.logger }
func (a *app) Config() *config.Config         { return a.cfg }
func (a *app) Tokens() *token.Service         { return a.tokens }
func (a *app) Users() storage.UserRepository  { return a.store }
func (a *app) Sleep() storage.SleepRepository { return a.store }
func (a *app) Logs() storage.LogRepository    { return a.store }

func (a *app) StorageStatus(ctx context.Context) internal.StorageStatus {
	return a.store.Status(ctx)
}
