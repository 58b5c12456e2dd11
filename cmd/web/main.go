package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/de-tools/finance-atlas/pkg/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var opts app.Options

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Finance Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the app config file")
	rootCmd.Flags().StringVar(&opts.ProfilesPath, "profiles", "",
		"Path to the board profiles file (default is $HOME/"+app.DefaultProfilesFile+")")
	rootCmd.Flags().StringVarP(&opts.Profile, "profile", "p", "", "Board profile name")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := app.LoadConfig(opts)
	if err != nil {
		return err
	}

	logger := app.NewLogger(os.Stdout, cfg.Log.Level)
	ctx := logger.WithContext(cmd.Context())

	profile, err := app.LoadProfile(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to load board profile: %w", err)
	}

	a, err := app.New(ctx, cfg, profile)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to release resources")
		}
	}()

	for _, b := range a.Boards() {
		logger.Info().Msgf("Sales board: `%s` (%s)", b.Name, b.ID)
	}
	if err := a.StartRefresh(ctx); err != nil {
		return fmt.Errorf("failed to start board refresh: %w", err)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RequestTimeout:  cfg.Server.RequestTimeout,
		Dependencies: server.Dependencies{
			Reports:  a.Reports,
			Ledger:   a.Ledger,
			Importer: a.Importer,
			Boards:   a.Boards(),
			Years:    cfg.Report.Years,
			Gatherer: a.Registry,
		},
	})

	return webAPI.Start()
}
