package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/kvstore"
	"github.com/mrlokans/atlas/internal/restcountries"
)

// NewFavoritesCommand creates the favorites command with its list, toggle
// and remove subcommands.
func NewFavoritesCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage command line favorites",
		Long:  fmt.Sprintf("List and edit up to %d favorite countries stored in the local database.", favorites.Capacity),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(env, func(store kvstore.Store) error {
				list := favorites.NewManager().Load(store)
				printCountries(cmd.OutOrStdout(), list)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d favorites\n", len(list), favorites.Capacity)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle CODE",
		Short: "Add or remove a country by its three-letter code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, env, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove CODE",
		Short: "Remove a country from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			return withStore(env, func(store kvstore.Store) error {
				list, err := favorites.NewManager().Remove(store, code)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d/%d favorites)\n", code, len(list), favorites.Capacity)
				return nil
			})
		},
	})

	return cmd
}

func runToggle(cmd *cobra.Command, env *Env, rawCode string) error {
	code := strings.ToUpper(strings.TrimSpace(rawCode))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	country, err := env.Source.FetchByCode(ctx, code)
	if errors.Is(err, restcountries.ErrNotFound) {
		return fmt.Errorf("unknown country code %s", code)
	}
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", code, err)
	}

	return withStore(env, func(store kvstore.Store) error {
		list, added, err := favorites.NewManager().Toggle(store, *country)
		if err != nil {
			return err
		}
		verb := "Removed"
		if added {
			verb = "Added"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d/%d favorites)\n", verb, country.CommonName, len(list), favorites.Capacity)
		return nil
	})
}

func withStore(env *Env, fn func(kvstore.Store) error) error {
	store, release, err := env.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if release != nil {
			_ = release()
		}
	}()
	return fn(store)
}
