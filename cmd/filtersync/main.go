package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"filtersync/internal/config"
	"filtersync/internal/gamedir"
	"filtersync/internal/httpclient"
	"filtersync/internal/installer"
	"filtersync/internal/launcher"
	"filtersync/internal/logger"
	"filtersync/internal/orchestrator"
	"filtersync/internal/resolver"
	"filtersync/internal/source"
)

const usage = `Usage: filtersync [flags] <source>... [-- <command> [args...]]

Synchronizes item filter sources into the game data directory, then
optionally replaces the process with <command>.

Sources are descriptors of the form github:owner/repo (latest release) or
github:owner/repo/branch (branch head), or a configured alias such as
neversink-lite.

Flags:
  --clear          wipe the watermark store before processing, forcing
                   re-installation of every source
  --config, -c     path to the configuration file
  --help, -h       show this help
`

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if args.help {
		fmt.Fprint(os.Stderr, usage)
		return
	}

	if len(args.sources) == 0 && len(args.execCommand) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: no sources and no command given")
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	gCfg, err := config.LoadGlobalConfig(args.configPath)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runSync(ctx, gCfg, args, zLogger); err != nil {
		zLogger.Fatal().Err(err).Msg("Sync failed")
	}

	if len(args.execCommand) == 0 {
		zLogger.Info().Msg("Nothing to execute provided")
		return
	}

	zLogger.Info().Strs("command", args.execCommand).Msg("Replacing process")
	if err := launcher.Exec(args.execCommand); err != nil {
		zLogger.Fatal().Err(err).Msg("Could not execute command")
	}
}

func runSync(ctx context.Context, gCfg *config.GlobalConfig, args cliArgs, zLogger zerolog.Logger) error {
	var err error

	targetDir := gCfg.SyncConfig.TargetDir
	if targetDir == "" {
		targetDir, err = gamedir.Locate(gCfg.SyncConfig.SteamAppID, zLogger)
		if err != nil {
			return err
		}
	}
	zLogger.Info().Str("target_dir", targetDir).Msg("Using game data directory")

	client, err := httpclient.NewClient(gCfg.HTTPClientConfig, zLogger)
	if err != nil {
		return err
	}

	syncOrchestrator := orchestrator.NewSyncOrchestrator(
		source.NewParser(gCfg.SyncConfig.Aliases),
		resolver.NewGitHubResolver(client, gCfg.SyncConfig.APIBaseURL, gCfg.SyncConfig.DownloadBaseURL, zLogger),
		installer.NewInstaller(client, gCfg.SyncConfig.MarkerExtension, zLogger),
		targetDir,
		gCfg.SyncConfig.StateFileName,
		os.Stderr,
		zLogger,
	)

	return syncOrchestrator.Run(ctx, args.sources, args.clear)
}
