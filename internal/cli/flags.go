package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// SearchCommand lists upcoming events matching a keyword and the filters.
type SearchCommand struct {
	Category  string `long:"category" description:"Category id: all | music | sports | arts | film | misc"`
	Region    string `long:"region" description:"Country code to search in (remembered for later searches)"`
	Date      string `long:"date" description:"Date filter: all | today | weekend | week | month | YYYY-MM-DD..YYYY-MM-DD" default:"all"`
	Sort      string `long:"sort" description:"Sort order: date_asc | date_desc | name_asc"`
	Size      int    `long:"size" description:"Events per page"`
	Pages     int    `long:"pages" description:"Number of pages to fetch" default:"1"`
	NoHistory bool   `long:"no-history" description:"Do not record the keyword in the search history"`

	globals *GlobalFlags
	version string
	env     *appEnv // injectable for testing; nil means open from config
}

// ShowCommand prints the details of one event.
type ShowCommand struct {
	ID string `long:"id" description:"Event ID (required)"`

	globals *GlobalFlags
	version string
	env     *appEnv
}

// FavoriteCommand adds an event to the favorites, or removes it.
type FavoriteCommand struct {
	ID string `long:"id" description:"Event ID (required)"`

	globals *GlobalFlags
	version string
	env     *appEnv
}

// FavoritesCommand fetches and lists the favorite events.
type FavoritesCommand struct {
	ICS   string `long:"ics" description:"Also write the favorites to this .ics file"`
	Prune bool   `long:"prune" description:"Forget favorites whose event no longer exists"`

	globals *GlobalFlags
	version string
	env     *appEnv
}

// HistoryCommand shows or edits the search history.
type HistoryCommand struct {
	Remove string `long:"remove" description:"Remove one entry"`
	Clear  bool   `long:"clear" description:"Remove every entry"`

	globals *GlobalFlags
	version string
	env     *appEnv
}

// RegionCommand shows the regions or selects one.
type RegionCommand struct {
	globals *GlobalFlags
	version string
	env     *appEnv
}

// ClearFiltersCommand resets the remembered filters to their defaults.
type ClearFiltersCommand struct {
	globals *GlobalFlags
	version string
	env     *appEnv
}

// StatusCommand shows storage statistics and the remembered selections.
type StatusCommand struct {
	Audit int `long:"audit" description:"Number of audit log entries to show" default:"5"`

	globals *GlobalFlags
	version string
	env     *appEnv
}

// ResetCommand deletes ALL stored data with safety confirmation.
type ResetCommand struct {
	All   bool `long:"all" description:"Required flag to confirm reset intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	env     *appEnv
}
