package main

import (
	"context"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/linklite/linklite/internal/container"
	"github.com/linklite/linklite/internal/messaging"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// The consumer binary runs the click recorder: it drains access events from
// the stream, enriches them, and persists click events. It can be scaled
// independently of the API server.
func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		do.ProvideValue(injector, options)
		container.LoggerPackage(injector)
		container.RedisPackage(injector)
		container.PostgresPackage(injector)
		container.RepositoryPackage(injector)
		container.ConsumerGroupPackage(injector)

		logger := do.MustInvoke[*zap.Logger](injector)

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			group := do.MustInvoke[*messaging.ConsumerGroup](injector)

			if err := group.Start(ctx); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			<-ctx.Done()
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			cancel()

			if err := injector.Shutdown(); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Run()
}
