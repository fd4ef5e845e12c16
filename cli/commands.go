package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands. Empty values
// fall back to the config file.
type Globals struct {
	Telemetry   bool   `help:"Show timing telemetry for operations."`
	LogLevel    string `help:"Log level for diagnostics (trace, debug, info, warn, error)." placeholder:"LEVEL"`
	Config      string `help:"Configuration file (default: $JOURNAL_CONFIG or the user config directory)." placeholder:"PATH"`
	ErrorFormat string `help:"Error output format (text or json)." placeholder:"FORMAT"`
	Color       string `help:"When to color output (auto, always or never)." placeholder:"WHEN"`
}

type Commands struct {
	Globals

	Balance  BalanceCmd  `cmd:"" aliases:"bal" help:"Show account balances."`
	Register RegisterCmd `cmd:"" aliases:"reg" help:"Show postings with a running total."`
	Print    PrintCmd    `cmd:"" help:"Print transactions in journal syntax."`
	Accounts AccountsCmd `cmd:"" help:"List accounts."`
	Codes    CodesCmd    `cmd:"" help:"List transaction codes."`
	Check    CheckCmd    `cmd:"" help:"Load and balance journals without printing a report."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging journal files."`
}
