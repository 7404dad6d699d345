package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Run     RunCmd     `cmd:"" help:"Scrape all sources and persist the merged result."`
	Export  ExportCmd  `cmd:"" help:"Scrape all sources and write CSV or JSON."`
}

func NewCLI() *CLI {
	return &CLI{}
}
