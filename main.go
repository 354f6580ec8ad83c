package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/app"
	configx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/config"
	logx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/logger"
)

var (
	envPath string
	appCfg  *app.Config
)

func main() {
	root := &cobra.Command{
		Use:           "crm-agent",
		Short:         "Client relationship agent",
		Long:          "Builds client profiles from conversations, remembers past interactions and recommends services.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envPath)
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			logx.Init(cfg.Log)
			appCfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envPath, "env", "", "path to an env file (default: ./.env when present)")

	root.AddCommand(serveCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(demoCmd())
	root.AddCommand(configCmd())
	root.AddCommand(profilesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, appCfg)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.Dashboard().Run(ctx, appCfg.Dashboard); err != nil {
				return err
			}
			return a.SaveProfiles(context.Background())
		},
	}
}

func chatCmd() *cobra.Command {
	var clientID, clientName string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message through the pipeline and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, appCfg)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.Orchestrator.HandleMessage(ctx, clientID, clientName, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Reply)
			fmt.Fprintf(out, "\nsentiment: %s\nrecommendations: %s\n", res.Sentiment, strings.Join(res.Recommendations, ", "))
			return a.SaveProfiles(ctx)
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "cli_client", "client id")
	cmd.Flags().StringVar(&clientName, "name", "", "client name (defaults to the id)")
	return cmd
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logx.Warn().Err(err).Msg("close app")
	}
}
