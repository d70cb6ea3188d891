package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/atlas/internal/config"
	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/entrypoint"
	"github.com/mrlokans/atlas/internal/kvstore"
)

// Env supplies the collaborators of the offline commands.
type Env struct {
	// Source provides country data.
	Source directory.Source
	// OpenStore opens the store holding the command line favorites. The
	// returned func releases it.
	OpenStore func() (kvstore.Store, func() error, error)
}

// NewEnv builds an Env from the environment driven configuration. The CLI
// keeps its favorites in a dedicated scope of the main database.
func NewEnv(cfg *config.Config) *Env {
	return &Env{
		Source: entrypoint.NewRestCountriesClient(cfg),
		OpenStore: func() (kvstore.Store, func() error, error) {
			db, err := database.NewDatabase(cfg.Database.Path)
			if err != nil {
				return nil, nil, err
			}
			return db.Scope(entities.ScopeCLI), db.Close, nil
		},
	}
}

// NewRootCommand creates the root command. Without a subcommand it serves
// the web application.
func NewRootCommand(version string) *cobra.Command {
	cfg := config.NewConfig()
	env := NewEnv(cfg)

	cmd := &cobra.Command{
		Use:          "atlas",
		Short:        "Atlas - browse, search and bookmark countries",
		Long:         "Atlas serves a country directory backed by the REST Countries API.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(cfg, version)
			return nil
		},
	}

	cmd.AddCommand(NewServeCommand(cfg, version))
	cmd.AddCommand(NewCountriesCommand(env))
	cmd.AddCommand(NewFavoritesCommand(env))

	return cmd
}

// NewServeCommand creates the serve command.
func NewServeCommand(cfg *config.Config, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(cfg, version)
			return nil
		},
	}
}
