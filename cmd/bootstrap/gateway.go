package bootstrap

import (
	"leadgate/internal/gateway/stripe"
	"leadgate/internal/pkg/clock"
	"leadgate/internal/pkg/config"
	"leadgate/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewStripeGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewStripeGateway(cfg config.Config, clk clock.Clock) *stripe.Gateway {
	return stripe.NewGateway(cfg.Stripe.WebhookSecret, cfg.Stripe.SignatureTolerance, clk)
}
