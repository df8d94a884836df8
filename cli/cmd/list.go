package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// ListCommand returns the list command: each input item names a path to
// report on.
func ListCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags,
		ACLFlag, AVUFlag, ChecksumFlag, ContentsFlag, ReplicateFlag,
		SizeFlag, TimestampFlag,
	)

	return &cli.Command{
		Name:   "list",
		Usage:  "Report on catalog paths read from stdin",
		Flags:  flags,
		Action: fixedOpAction(types.OpList),
	}
}
