package filing

import (
	"github.com/smallbiznis/taxrail/internal/filing/repository"
	"github.com/smallbiznis/taxrail/internal/filing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("filing",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
