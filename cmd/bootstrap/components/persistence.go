package components

import (
	"leadgate/internal/infra/readstore"
	"leadgate/internal/infra/uow"
	"leadgate/internal/usecase/queries"
	"leadgate/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewLeadReadStore,
			fx.As(new(queries.LeadReadStore)),
		),
	),
)
