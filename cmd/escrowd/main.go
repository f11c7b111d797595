package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/app"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/store/leveldb"
	"github.com/custodia-labs/escrowd/x"
	"github.com/custodia-labs/escrowd/x/cash"
	"github.com/custodia-labs/escrowd/x/offer"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML configuration file")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("terminated")
	}
}

func run(cfg Config, log zerolog.Logger) error {
	db, err := leveldb.NewCommitStore(cfg.DBPath)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer db.Close()

	auth := x.CtxAuth{}
	ctrl := cash.NewController()

	router := app.NewRouter()
	cash.RegisterRoutes(router, auth, ctrl)
	offer.RegisterRoutes(router, auth, ctrl)

	handler := app.ChainDecorators(
		app.NewLogging(log),
		app.NewRecovery(),
	).WithHandler(router)

	emitter := logEmitter{log: log}
	disp := app.NewDispatcher(db, handler, emitter)

	if err := applyGenesis(db, ctrl, cfg.GenesisAccounts); err != nil {
		return errors.Wrap(err, "genesis")
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: NewServer(disp, auth, ctrl, cfg.AddressHRP, log).Router(),
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-sigc:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

var genesisDoneKey = []byte("_genesis:done")

// applyGenesis seeds the configured accounts exactly once, against an
// empty database. All funding is one atomic write.
func applyGenesis(db escrowd.CacheableKVStore, ctrl cash.Controller, accounts []GenesisAccount) error {
	done, err := db.Get(genesisDoneKey)
	if err != nil {
		return err
	}
	if done != nil {
		return nil
	}

	cache := db.CacheWrap()
	for _, acc := range accounts {
		addr, err := escrowd.ParseAddress(acc.Address)
		if err != nil {
			cache.Discard()
			return errors.Wrapf(err, "account %q", acc.Address)
		}
		if err := ctrl.IssueCoins(cache, addr, coin.NewAmount(acc.Balance)); err != nil {
			cache.Discard()
			return errors.Wrapf(err, "fund %s", acc.Address)
		}
	}
	if err := cache.Set(genesisDoneKey, []byte{1}); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// logEmitter publishes committed events to the log stream.
type logEmitter struct {
	log zerolog.Logger
}

var _ escrowd.Emitter = logEmitter{}

func (e logEmitter) Emit(ev escrowd.Event) {
	e.log.Info().Str("event", ev.EventType()).Interface("data", ev).Msg("event")
}
