package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/memory"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/app"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/database"
	openrouterx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/openrouter"
)

const rule = "======================================================================"

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed sample clients, replay sample conversations and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg := *appCfg
			cfg.Memory.Backend = memory.BackendLocal
			cfg.Database = database.Config{}

			a, err := app.New(ctx, &cfg)
			if err != nil {
				return err
			}
			defer closeApp(a)

			seed, err := app.DefaultSeed()
			if err != nil {
				return err
			}
			if err := seed.Apply(a.Profiles); err != nil {
				return err
			}
			fmt.Fprintf(out, "Seeded %d clients\n\n%s\nPROCESSING CLIENT INTERACTIONS\n%s\n", len(seed.Clients), rule, rule)

			for _, in := range seed.Interactions {
				name := seed.ClientName(in.ClientID)
				res, err := a.Orchestrator.HandleMessage(ctx, in.ClientID, name, in.Message)
				if err != nil {
					return fmt.Errorf("client %s: %w", in.ClientID, err)
				}
				fmt.Fprintf(out, "\nClient: %s\nMessage: %s\nAgent Response:\n%s\n", name, in.Message, res.Reply)
			}

			fmt.Fprintf(out, "\n%s\nCLIENT PROFILES SUMMARY\n%s\n\n", rule, rule)
			for _, c := range seed.Clients {
				summary, err := a.Profiles.Summary(c.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, summary)
			}

			fmt.Fprintf(out, "%s\nSERVICE RECOMMENDATIONS\n%s\n\n", rule, rule)
			for _, c := range seed.Clients {
				recs, err := a.Profiles.Recommend(c.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s:\n", c.Name)
				for _, r := range recs {
					fmt.Fprintf(out, "  - %s\n", r)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration and validate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, kv := range appCfg.Describe() {
				fmt.Fprintf(tw, "%s\t%s\n", kv[0], kv[1])
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			verr := app.ValidateConfig(appCfg)
			if verr != nil {
				fmt.Fprintf(out, "\nconfiguration is invalid:\n%s\n", verr)
			} else {
				fmt.Fprintln(out, "\nconfiguration is valid")
			}

			if probe {
				if err := probeModels(cmd.Context(), cmd); err != nil {
					return err
				}
			}
			return verr
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "list models through the configured endpoint to verify credentials")
	return cmd
}

func probeModels(ctx context.Context, cmd *cobra.Command) error {
	pc, ok := appCfg.LLM.ProbeConfig()
	if !ok {
		return fmt.Errorf("model probe is only supported for OpenAI-compatible providers, not %s", appCfg.LLM.ProviderName())
	}
	models, err := openrouterx.ProbeModels(ctx, pc)
	if err != nil {
		return fmt.Errorf("probe models: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nendpoint reachable, %d models available\n", len(models))
	for _, m := range models {
		if strings.EqualFold(m, pc.Model) {
			fmt.Fprintf(cmd.OutOrStdout(), "configured model %s is available\n", m)
			return nil
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configured model %s was not listed\n", pc.Model)
	return nil
}

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Work with persisted client profiles",
	}

	var format, output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write every persisted profile as YAML or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !appCfg.Database.Enabled() {
				return errors.New("DATABASE_URL is required to export persisted profiles")
			}
			db, err := database.Open(appCfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := profile.NewRepository(db)
			if err := repo.CreateTable(cmd.Context()); err != nil {
				return err
			}
			store := profile.NewStore()
			if _, err := repo.Restore(cmd.Context(), store); err != nil {
				return err
			}

			if output != "" {
				return app.ExportProfilesToFile(output, store, format)
			}
			return app.ExportProfiles(cmd.OutOrStdout(), store, format)
		},
	}
	export.Flags().StringVar(&format, "format", app.FormatYAML, "output format: yaml or json")
	export.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	cmd.AddCommand(export)
	return cmd
}
