//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/critter-checklist/internal/bootstrap"
	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	"github.com/yanqian/critter-checklist/internal/domain/checklist"
	"github.com/yanqian/critter-checklist/internal/infra/config"
	httpiface "github.com/yanqian/critter-checklist/internal/interface/http"
	"github.com/yanqian/critter-checklist/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClock,
		provideChecklistConfig,
		provideDatasetLoader,
		provideStateStore,
		checklist.NewRepository,
		checklist.NewService,
		wire.Bind(new(checklist.DatasetLoader), new(*catalog.Loader)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
