package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/db/models"
)

// ErrInvalidAssignment is returned for set arguments that are not key=value.
var ErrInvalidAssignment = pkgerrors.New("expected key=value")

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Read and write the settings the panel edits",
	}

	settingsListCmd = &cobra.Command{
		Use:   "list",
		Short: "Print the settings of every domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(database *db.Database) error {
				all := make(map[string]map[string]interface{}, len(models.Domains()))

				for _, domain := range models.Domains() {
					model, err := loadDomain(cmd.Context(), database, domain)
					if err != nil {
						return err
					}

					all[domain] = model.GetData()
				}

				return printJSON(cmd.OutOrStdout(), all)
			})
		},
	}

	settingsGetCmd = &cobra.Command{
		Use:       "get <domain>",
		Short:     "Print the settings of one domain",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: models.Domains(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(database *db.Database) error {
				model, err := loadDomain(cmd.Context(), database, args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), model.GetData())
			})
		},
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set <domain> key=value...",
		Short: "Change settings of one domain, unknown keys are ignored",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]
			if !validDomain(domain) {
				return fmt.Errorf("unknown settings domain %q", domain)
			}

			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			return withDatabase(cmd.Context(), func(database *db.Database) error {
				model, err := loadDomain(cmd.Context(), database, domain)
				if err != nil {
					return err
				}

				model.SetData(values, true)

				if err = model.Save(cmd.Context()); err != nil {
					return pkgerrors.Wrap(err, "failed to save "+domain)
				}

				return printJSON(cmd.OutOrStdout(), model.GetData())
			})
		},
	}
)

func validDomain(domain string) bool {
	return slices.Contains(models.Domains(), domain)
}

func withDatabase(ctx context.Context, fn func(*db.Database) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	database := db.FromConfig(cfg.DB)
	if err := database.Open(ctx); err != nil {
		return pkgerrors.Wrap(err, "failed to open settings database")
	}

	defer database.Close() //nolint:errcheck

	return fn(database)
}

// loadDomain reads a domain the way the panel shows it: every column present.
func loadDomain(ctx context.Context, database *db.Database, domain string) (db.Model, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	model, err := database.GetSettings(ctx, domain,
		db.WithRefreshOptions(db.PopulateFields(), db.PopulateFieldsDefault("")))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load "+domain)
	}

	return model, nil
}

func parseAssignments(args []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(args))

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, pkgerrors.Wrap(ErrInvalidAssignment, arg)
		}

		values[strings.TrimSpace(key)] = value
	}

	return values, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
