package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/caredesk/healthchat/assistant/orchestrator"
	"github.com/caredesk/healthchat/assistant/remote"
	"github.com/caredesk/healthchat/assistant/rules"
	"github.com/caredesk/healthchat/assistant/tool"
	"github.com/caredesk/healthchat/datastore"
	configx "github.com/caredesk/healthchat/pkg/config"
	logx "github.com/caredesk/healthchat/pkg/logger"
	"github.com/caredesk/healthchat/server"
)

type AppConfig struct {
	Port          string `envconfig:"PORT" default:"8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	StatsShortcut bool   `envconfig:"STATS_SHORTCUT" split_words:"true" default:"false"`
}

const (
	remotePriority    = 100
	ruleBasedPriority = 10
)

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	appCfg := configx.MustNew[AppConfig]("")
	remoteCfg := configx.MustNew[remote.Config]("OPENAI")

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(appCfg.DatabaseURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("database ping failed")
	}

	store := datastore.NewStore(db)
	dispatcher := tool.NewDispatcher(store)

	remoteProvider := remote.New(*remoteCfg, dispatcher)
	ruleProvider := rules.New(store)

	orch, err := orchestrator.New(ruleProvider,
		orchestrator.Entry{Provider: remoteProvider, Priority: remotePriority},
		orchestrator.Entry{Provider: ruleProvider, Priority: ruleBasedPriority},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("orchestrator init failed")
	}

	var shortcut *server.StatsShortcut
	if appCfg.StatsShortcut {
		shortcut = server.NewStatsShortcut(store)
	}

	handler := server.NewHandler(orch, shortcut)
	router := server.NewRouter(handler)

	addr := fmt.Sprintf(":%s", appCfg.Port)
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
