package payroll

import (
	"github.com/smallbiznis/taxrail/internal/payroll/repository"
	"github.com/smallbiznis/taxrail/internal/payroll/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payroll",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
