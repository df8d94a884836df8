package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// GetCommand returns the get command: each input item names a data
// object to fetch, as inline JSON, a saved file or raw bytes.
func GetCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags, SaveFlag, RawFlag)

	return &cli.Command{
		Name:   "get",
		Usage:  "Fetch data objects named on stdin",
		Flags:  flags,
		Action: fixedOpAction(types.OpGet),
	}
}
