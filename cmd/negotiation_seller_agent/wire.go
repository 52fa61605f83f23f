//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"negotiation_seller_agent/internal/biz"
	"negotiation_seller_agent/internal/conf"
	"negotiation_seller_agent/internal/nlu"
	"negotiation_seller_agent/internal/relay"
	"negotiation_seller_agent/internal/server"
	"negotiation_seller_agent/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Bootstrap, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		// Extract individual configs from Bootstrap
		wire.FieldsOf(new(*conf.Bootstrap), "Server", "Agent", "Services", "Log"),

		// Core providers
		server.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,

		// Remote service clients
		nlu.ProviderSet,
		relay.ProviderSet,

		// Zap logger provider
		NewZapLogger,

		newApp,
	))
}
