package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile      string
	Full            bool
	Force           bool
	Payer           string
	Tier            string
	Path            string
	MemoryThreshold int
	MaxAttempts     int
	Debug           bool
	ReportName      string
	ReportType      []string
	Dir             string
	PushgatewayURL  string
	Verify          bool
}
