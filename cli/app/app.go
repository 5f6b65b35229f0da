// Package app contains the tide-cli application assembly.
package app

import (
	"github.com/tidechain/tide-go/cli/query"
	"github.com/tidechain/tide-go/cli/vote"
	"github.com/tidechain/tide-go/pkg/config"
	"github.com/urfave/cli"
)

// New creates a tide-cli application with all commands included.
func New() *cli.App {
	ctl := cli.NewApp()
	ctl.Name = "tide-cli"
	ctl.Version = config.Version
	ctl.Usage = "Delegate vote ledger tool"

	ctl.Commands = append(ctl.Commands, query.NewCommands()...)
	ctl.Commands = append(ctl.Commands, vote.NewCommands()...)
	return ctl
}
