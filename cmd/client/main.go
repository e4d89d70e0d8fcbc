package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"ClinicDesk/internal/cli/bootstrap"
	"ClinicDesk/internal/cli/commands"
	"ClinicDesk/internal/config"
)

// заполняются через -ldflags "-X main.version=..."
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		fmt.Fprintf(commands.Out, "clinicctl %s (built %s, %s %s/%s)\nAPI: %s\n",
			version, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH, cfg.APIURL)
		return
	}

	log, syncLog := bootstrap.NewLogger(cfg.Debug)
	log.Debugw("client config",
		"api_url", cfg.APIURL,
		"durable", cfg.DurableBackend,
		"tab", cfg.TabBackend,
		"exclusive_tiers", cfg.ExclusiveTiers,
	)
	syncLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}
