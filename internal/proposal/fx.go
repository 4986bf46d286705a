package proposal

import (
	"github.com/saquib05/valentine-site/internal/proposal/repository"
	"github.com/saquib05/valentine-site/internal/proposal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("proposal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
