package taxpayment

import (
	"github.com/smallbiznis/taxrail/internal/taxpayment/repository"
	"github.com/smallbiznis/taxrail/internal/taxpayment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxpayment",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
