package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// MetamodCommand returns the metamod command: each input item names a
// path and the AVUs to add to or remove from it.
func MetamodCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags, MetamodOpFlag)

	return &cli.Command{
		Name:  "metamod",
		Usage: "Add or remove metadata on catalog paths read from stdin",
		Flags: flags,
		Action: func(c *cli.Context) error {
			switch c.String(MetamodOpFlag.Name) {
			case types.MetaAddName, types.MetaRemoveName:
			default:
				return cli.Exit("crozier: --operation must be add or rm", exitFatal)
			}
			return fixedOpAction(types.OpMetamod)(c)
		},
	}
}
