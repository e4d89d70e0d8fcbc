package commands

import (
	"ClinicDesk/internal/cli/api"
	"ClinicDesk/internal/cli/bootstrap"
	"ClinicDesk/internal/cli/service"
	"ClinicDesk/internal/cli/session"
	"ClinicDesk/internal/config"

	"go.uber.org/zap"
)

// env - зависимости, общие для всех сетевых команд.
type env struct {
	sess    *session.Store
	client  *api.Client
	log     *zap.SugaredLogger
	auth    service.AuthService
	records *service.RecordsService
	close   func()
}

// openEnv открывает сессию и создаёт клиент API. close необходимо вызвать по завершении команды.
func openEnv(cfg *config.Config) (*env, error) {
	log, syncLog := bootstrap.NewLogger(cfg.Debug)
	sess, done, err := bootstrap.OpenSession(cfg)
	if err != nil {
		syncLog()
		return nil, err
	}

	opts := []api.Option{api.WithLogger(log)}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.HTTPTimeout))
	}
	if cfg.InsecureTLS {
		opts = append(opts, api.WithInsecureTLS())
	}
	client := api.New(apiURL(cfg), sess, opts...)

	return &env{
		sess:    sess,
		client:  client,
		log:     log,
		auth:    service.NewAuthService(client, sess, log),
		records: service.NewRecordsService(client, log),
		close: func() {
			if err := done(); err != nil {
				log.Warnw("close session store", "error", err)
			}
			syncLog()
		},
	}, nil
}

func apiURL(cfg *config.Config) string {
	if cfg.APIURL == "" {
		return config.DefaultAPIURL
	}
	return cfg.APIURL
}
