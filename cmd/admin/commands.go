package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"socialautomator/internal/bootstrap"
	"socialautomator/internal/config"
	"socialautomator/internal/service"
	"socialautomator/internal/usertable"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runtimeLoader builds the services a command works on.
type runtimeLoader func(ctx context.Context) (*bootstrap.Runtime, error)

// cliAdminID owns the table state of CLI invocations.
const cliAdminID = "cli"

func loadRuntime(ctx context.Context) (*bootstrap.Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newCLIRuntime(ctx, cfg)
}

// newCLIRuntime wires a runtime for read-only commands. It never touches
// Redis or the event stream, so the server's cache and revocations stay as they are.
func newCLIRuntime(ctx context.Context, cfg *config.Config) (*bootstrap.Runtime, error) {
	cfg.EventsDriver = config.EventsNone
	return bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
}

// withRuntime wraps a command body with runtime setup and teardown.
func withRuntime(load runtimeLoader, fn func(cmd *cobra.Command, rt *bootstrap.Runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		rt, err := load(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd, rt)
	}
}

func newRootCmd(load runtimeLoader) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "SocialAutomator operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	users := &cobra.Command{Use: "users", Short: "Inspect managed user accounts"}
	users.AddCommand(usersListCmd(load), usersExportCmd(load))

	settings := &cobra.Command{Use: "settings", Short: "Inspect system settings"}
	settings.AddCommand(settingsShowCmd(load))

	analytics := &cobra.Command{Use: "analytics", Short: "Inspect generated analytics"}
	analytics.AddCommand(analyticsOverviewCmd(load))

	root.AddCommand(users, settings, analytics)
	return root
}

func usersListCmd(load runtimeLoader) *cobra.Command {
	var search, sortField string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed users, filtered and sorted",
		RunE: withRuntime(load, func(cmd *cobra.Command, rt *bootstrap.Runtime) error {
			dir := string(usertable.Asc)
			if desc {
				dir = string(usertable.Desc)
			}
			rows, err := rt.AdminService.QueryUsers(cmd.Context(), service.QueryUsersInput{
				Search:    search,
				Sort:      sortField,
				Direction: dir,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS\tPOSTS\tLAST ACTIVE")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.Name, r.Email, r.Role, r.Status, r.PostsCount,
					r.LastActive.Format(usertable.LastActiveLayout))
			}
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name or email filter")
	cmd.Flags().StringVar(&sortField, "sort", string(usertable.FieldName), "sort field (name, email, role, status, postsCount, lastActive)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func usersExportCmd(load runtimeLoader) *cobra.Command {
	var out, search string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export managed users as CSV",
		RunE: withRuntime(load, func(cmd *cobra.Command, rt *bootstrap.Runtime) error {
			ctx := cmd.Context()
			if _, err := rt.AdminService.SetSearch(ctx, cliAdminID, search); err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := rt.AdminService.Export(ctx, cliAdminID, w); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout), e.g. "+usertable.ExportFilename)
	cmd.Flags().StringVar(&search, "search", "", "export only matching users")
	return cmd
}

func settingsShowCmd(load runtimeLoader) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current system settings",
		RunE: withRuntime(load, func(cmd *cobra.Command, rt *bootstrap.Runtime) error {
			settings, err := rt.AdminService.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, settings)
		}),
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or json)")
	return cmd
}

func analyticsOverviewCmd(load runtimeLoader) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print the analytics overview",
		RunE: withRuntime(load, func(cmd *cobra.Command, rt *bootstrap.Runtime) error {
			overview, err := rt.AnalyticsService.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, overview)
		}),
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (yaml or json)")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
