package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// PutCommand returns the put command: each input item names a local
// file and the data object to upload it to.
func PutCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags, ChecksumFlag, ForceFlag, SingleServerFlag)

	return &cli.Command{
		Name:   "put",
		Usage:  "Upload local files to data objects named on stdin",
		Flags:  flags,
		Action: fixedOpAction(types.OpPut),
	}
}
