package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Search       *SearchCommand
	Show         *ShowCommand
	Favorite     *FavoriteCommand
	Favorites    *FavoritesCommand
	History      *HistoryCommand
	Region       *RegionCommand
	ClearFilters *ClearFiltersCommand
	Status       *StatusCommand
	Reset        *ResetCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "eventspot"
	parser.LongDescription = "Find upcoming concerts, games and shows, and keep track of the ones you like."

	cmds := &commands{
		Search:       &SearchCommand{globals: &globals, version: version},
		Show:         &ShowCommand{globals: &globals, version: version},
		Favorite:     &FavoriteCommand{globals: &globals, version: version},
		Favorites:    &FavoritesCommand{globals: &globals, version: version},
		History:      &HistoryCommand{globals: &globals, version: version},
		Region:       &RegionCommand{globals: &globals, version: version},
		ClearFilters: &ClearFiltersCommand{globals: &globals, version: version},
		Status:       &StatusCommand{globals: &globals, version: version},
		Reset:        &ResetCommand{globals: &globals, version: version},
	}

	parser.AddCommand("search", "Search upcoming events", "Search upcoming events by keyword, with optional category, region, date and sort filters.", cmds.Search)
	parser.AddCommand("show", "Show one event", "Print the details of a single event.", cmds.Show)
	parser.AddCommand("favorite", "Toggle a favorite", "Add an event to the favorites, or remove it when it is already one.", cmds.Favorite)
	parser.AddCommand("favorites", "List favorite events", "Fetch and list the favorite events, optionally exporting them as iCalendar.", cmds.Favorites)
	parser.AddCommand("history", "Show the search history", "Show, edit or clear the recent searches.", cmds.History)
	parser.AddCommand("region", "Show or select the region", "List the supported regions, or select one by country code.", cmds.Region)
	parser.AddCommand("clear-filters", "Reset the filters", "Reset the date filter and region to their defaults.", cmds.ClearFilters)
	parser.AddCommand("status", "Show storage statistics", "Show storage statistics, remembered selections and recent audit entries.", cmds.Status)
	parser.AddCommand("reset", "Delete ALL stored data", "Delete ALL stored data. Destructive operation with safety prompt.", cmds.Reset)

	return parser, &globals, cmds
}

// Run is the main entry point for the eventspot CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("eventspot %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
