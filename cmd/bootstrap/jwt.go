package bootstrap

import (
	"time"

	"leadgate/internal/pkg/config"
	"leadgate/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// Token lifetime is owned by the auth service that mints tokens; this value
// only bounds tokens generated locally for tests and tooling.
const localTokenDuration = 24 * time.Hour

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, localTokenDuration)
}
