package company

import (
	"github.com/smallbiznis/taxrail/internal/company/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("company",
	fx.Provide(repository.NewRepository),
)
