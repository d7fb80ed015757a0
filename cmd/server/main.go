package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/folioworks/vitae/modules"
	"github.com/folioworks/vitae/pkg/configuration"
	"github.com/folioworks/vitae/pkg/eventbus"
	"github.com/folioworks/vitae/pkg/kv"
	"github.com/folioworks/vitae/pkg/middleware"
	"github.com/folioworks/vitae/pkg/server"
)

func newKVStore(conf *configuration.Configuration) (kv.Store, func(), error) {
	if conf.Staging.Storage == "redis" {
		opts, err := redis.ParseURL("redis://" + conf.Staging.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		return kv.NewRedisStore(client), func() { _ = client.Close() }, nil
	}
	store := kv.NewMemoryStore()
	return store, store.Close, nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	store, closeStore, err := newKVStore(conf)
	if err != nil {
		panic(err)
	}
	defer closeStore()

	controllers := modules.Load(&modules.Options{
		Pool:              pool,
		KV:                store,
		EventBus:          eventbus.NewEventPublisher(logger),
		SessionTTL:        conf.Staging.SessionTTL,
		WorkspaceIDHeader: conf.WorkspaceIDHeader,
		MaxPageSize:       conf.MaxPageSize,
		MaxUploadSize:     conf.MaxUploadSize,
	})
	controllers = append(controllers, server.NewHealthController())

	srv := &server.HTTPServer{
		Controllers: controllers,
		Middlewares: []mux.MiddlewareFunc{
			middleware.LogRequests(logger, conf.RequestIDHeader),
		},
	}

	logger.WithField("address", conf.SocketAddress).Info("listening")
	if err := srv.Start(conf.SocketAddress); err != nil {
		panic(err)
	}
}
