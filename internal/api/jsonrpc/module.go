package jsonrpc

import (
	"go.uber.org/fx"

	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
)

// Module JSON-RPC fx模块
var Module = fx.Module("api.jsonrpc",
	fx.Provide(
		func(logger logiface.Logger) *Server {
			return NewServer(logger.GetZapLogger())
		},
		NewMethods,
	),
)
