package ledger

import (
	"go.uber.org/fx"

	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
)

// Module 状态账本fx模块
var Module = fx.Module("core.ledger",
	fx.Provide(
		fx.Annotate(
			NewLedger,
			fx.As(new(ledgeriface.StateLedger)),
		),
	),
)
