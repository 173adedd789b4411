package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExportCommand extracts the history and writes JSON, CSV and statistics files.
type ExportCommand struct {
	Source        string `long:"source" description:"Path to the browser History database"`
	OutputDir     string `long:"output-dir" description:"Directory for output files"`
	ChunkSize     string `long:"chunk-size" description:"Split JSON into chunks of at most this many tokens (e.g., 100k, 2M)"`
	IncludeHidden bool   `long:"include-hidden" description:"Include urls the browser marks hidden"`

	globals *GlobalFlags
	version string
}

// SummaryCommand prints statistics without writing files.
type SummaryCommand struct {
	Source        string `long:"source" description:"Path to the browser History database"`
	IncludeHidden bool   `long:"include-hidden" description:"Include urls the browser marks hidden"`

	globals *GlobalFlags
	version string
}

// PlanCommand prints the chunk plan for a budget without writing files.
type PlanCommand struct {
	ChunkSize     string `long:"chunk-size" description:"Token budget per chunk (e.g., 100k, 2M) (required)"`
	Source        string `long:"source" description:"Path to the browser History database"`
	IncludeHidden bool   `long:"include-hidden" description:"Include urls the browser marks hidden"`

	globals *GlobalFlags
}
