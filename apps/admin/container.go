package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/admin"
	"github.com/trezcool/presensi/core/store"
	apisvc "github.com/trezcool/presensi/services/api"
	logsvc "github.com/trezcool/presensi/services/logger"
	filestore "github.com/trezcool/presensi/storage/token/file"
	inmemstore "github.com/trezcool/presensi/storage/token/inmem"
	redisstore "github.com/trezcool/presensi/storage/token/redis"
)

type NewConfigFunc func() *core.Config

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds)
	if conf.RollbarToken == "" {
		return logsvc.NewConsoleLogger(stdLogger, conf.Debug)
	}
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newTokenStore(conf *core.Config) (core.TokenStore, error) {
	switch conf.Session.Store {
	case "memory":
		return inmemstore.New(), nil
	case "file", "":
		return filestore.New(conf.Session.TokenFile), nil
	case "redis":
		return redisstore.Open(context.Background(), conf.Redis.Addr, conf.Redis.Password, conf.Session.TokenKey)
	}
	return nil, errors.Errorf("unknown session store %q", conf.Session.Store)
}

// closeTokenStore releases the connection of stores holding one, such as redis.
func closeTokenStore(tokens core.TokenStore, logger core.Logger) {
	closer, ok := tokens.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn("closing token store", err)
	}
}

func newSession(conf *core.Config, tokens core.TokenStore, logger core.Logger) *admin.Session {
	return admin.NewSession(tokens, conf.Device, logger)
}

// newAPIClient also binds the client to the session, which needs it to authenticate.
func newAPIClient(conf *core.Config, sess *admin.Session, logger core.Logger) core.APIClient {
	client := apisvc.NewClient(conf.API.BaseURL, sess, logger, apisvc.WithTimeout(conf.API.Timeout))
	sess.SetAPI(client)
	return client
}

func newStore(conf *core.Config, api core.APIClient, sess *admin.Session, logger core.Logger) *store.Store {
	return store.New(api, sess, logger, store.Options{EnforceTenancy: conf.EnforceTenancy})
}

// newContainer returns a new dependency injection dig.Container
func newContainer(newConfig NewConfigFunc) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newTokenStore))
	must(c.Provide(newSession))
	must(c.Provide(newAPIClient))
	must(c.Provide(newStore))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
