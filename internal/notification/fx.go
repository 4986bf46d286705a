package notification

import (
	"github.com/saquib05/valentine-site/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(service.New),
)
