// Package crypto 密码学基础设施装配
package crypto

import (
	"go.uber.org/fx"

	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/signature"
	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
)

// Module 密码学基础设施fx模块
var Module = fx.Module("infrastructure.crypto",
	fx.Provide(
		fx.Annotate(
			hash.NewService,
			fx.As(new(cryptoiface.HashManager)),
		),
		fx.Annotate(
			signature.NewService,
			fx.As(new(cryptoiface.SignatureManager)),
		),
	),
)
