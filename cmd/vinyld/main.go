package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vinylmint/vinyld/internal/config"
	"github.com/vinylmint/vinyld/internal/interface/web"
)

var flags = []cli.Flag{
	config.Datadir,
	config.Port,
	config.LogLevel,
	config.DbType,
	config.DbUrl,
	config.SchedulerType,
	config.LiveStoreType,
	config.RedisUrl,
	config.SweepInterval,
	config.StreamingPercentage,
	config.NFTSaleShare,
}

func main() {
	app := &cli.App{
		Name:   "vinyld",
		Usage:  "music NFT marketplace daemon",
		Flags:  flags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c)
	if err != nil {
		return fmt.Errorf("invalid config: %s", err)
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %s", err)
	}

	appSvc, err := cfg.AppService()
	if err != nil {
		return fmt.Errorf("failed to create app service: %s", err)
	}

	svc, err := web.NewService(web.Config{Port: cfg.Port}, appSvc)
	if err != nil {
		return fmt.Errorf("failed to create service: %s", err)
	}

	log.Debugf("vinyld config: %s", cfg)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		return fmt.Errorf("failed to start service: %s", err)
	}
	log.Infof("vinyld listens on: %d", cfg.Port)

	log.RegisterExitHandler(svc.Stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(
		sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGHUP, os.Interrupt,
	)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)
	return nil
}
