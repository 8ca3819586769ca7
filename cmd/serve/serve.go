package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pitwall/broadcaster"
	"pitwall/cmd/common"
	"pitwall/config"
	"pitwall/log"
	"pitwall/season"
	"pitwall/server"
	"pitwall/store"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVarP(&config.ListenAddr,
		"listen-addr",
		"a",
		"localhost:8080",
		"HTTP server listen address")
	cmd.Flags().IntVar(&config.SeasonYear,
		"season-year",
		0,
		"season kept loaded and pushed to clients (0: current year)")
	cmd.Flags().DurationVar(&config.SeasonRefresh,
		"season-refresh",
		time.Hour,
		"interval for reloading the kept season")
	cmd.Flags().DurationVar(&config.CacheTTL,
		"cache-ttl",
		6*time.Hour,
		"how long schedules of other seasons are cached (0: forever)")
	return cmd
}

func startServer() error {
	logger := common.SetupLogger()

	log.Debug("Config:",
		log.String("ergastURL", config.ErgastBaseURL),
		log.String("openf1URL", config.OpenF1BaseURL),
		log.String("listenAddr", config.ListenAddr),
		log.Int("seasonYear", config.SeasonYear),
	)

	results := common.NewErgastClient()
	live := common.NewOpenF1Client()
	resolver, err := common.NewResolver(config.SeasonYear)
	if err != nil {
		logger.Error("could not load asset catalog", log.ErrorField(err))
		return err
	}

	b := broadcaster.NewBroadcaster()
	loaderOpts := []season.Option{
		season.WithUpdateHandler(func(s season.Schedule) {
			b.Broadcast(broadcaster.Message{Type: "season", Data: s})
		}),
	}
	if config.SeasonYear > 0 {
		loaderOpts = append(loaderOpts, season.WithYear(config.SeasonYear))
	}
	loader := season.NewLoader(results, config.SeasonRefresh, loaderOpts...)

	resultStore, err := store.Open()
	if err != nil {
		logger.Error("could not open result store", log.ErrorField(err))
		return err
	}
	defer resultStore.Close()

	srv := server.New(results, live, loader, resolver,
		server.WithBroadcaster(b),
		server.WithCacheTTL(config.CacheTTL),
		server.WithResultStore(resultStore))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader.Start()
	defer loader.Stop()

	if err := srv.Run(ctx, config.ListenAddr); err != nil {
		logger.Error("server stopped", log.ErrorField(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
