package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/atlas/internal/catalog"
	"github.com/mrlokans/atlas/internal/entities"
)

// CountriesOptions holds options for the countries command.
type CountriesOptions struct {
	Search   string
	Region   string
	Language string
	Visible  int
	JSON     bool
	Timeout  time.Duration
}

// NewCountriesCommand creates the countries command.
func NewCountriesCommand(env *Env) *cobra.Command {
	opts := &CountriesOptions{}

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries matching a search and filter",
		Long:  "Fetch the catalog and print one page of countries, filtered like the directory page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountries(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Case-insensitive name search")
	cmd.Flags().StringVarP(&opts.Region, "region", "r", "", "Exact region")
	cmd.Flags().StringVarP(&opts.Language, "language", "l", "", "Language name")
	cmd.Flags().IntVar(&opts.Visible, "visible", catalog.PageSize, "Number of countries to show, rounded up to a page")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.MarkFlagsMutuallyExclusive("region", "language")

	return cmd
}

func runCountries(cmd *cobra.Command, env *Env, opts *CountriesOptions) error {
	if opts.Region != "" && opts.Language != "" {
		return catalog.ErrConflictingFilters
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	all, err := env.Source.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch countries: %w", err)
	}

	state := catalog.FilterState{
		Search:   opts.Search,
		Region:   opts.Region,
		Language: opts.Language,
		Visible:  catalog.NormalizeVisible(opts.Visible),
	}
	page := catalog.Paginate(all, state)

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(page)
	}

	out := cmd.OutOrStdout()
	printCountries(out, page.Countries)
	fmt.Fprintf(out, "\nShowing %d of %d\n", len(page.Countries), page.Total)
	if page.HasMore {
		fmt.Fprintf(out, "Use --visible %d to show more\n", catalog.Advance(state.Visible))
	}
	return nil
}

func printCountries(out io.Writer, countries []entities.Country) {
	if len(countries) == 0 {
		fmt.Fprintln(out, "No countries found")
		return
	}
	for _, c := range countries {
		fmt.Fprintf(out, "%-4s %-32s %-10s %s\n", c.Code, c.CommonName, c.Region, c.CapitalDisplay())
	}
}
