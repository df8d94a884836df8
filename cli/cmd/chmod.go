package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// ChmodCommand returns the chmod command: each input item names a path
// and the access entries to apply to it.
func ChmodCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags, RecurseFlag)

	return &cli.Command{
		Name:   "chmod",
		Usage:  "Modify permissions on catalog paths read from stdin",
		Flags:  flags,
		Action: fixedOpAction(types.OpChmod),
	}
}
