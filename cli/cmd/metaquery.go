package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// MetaqueryCommand returns the metaquery command: each input item
// carries AVUs to search for, with an optional root collection.
func MetaqueryCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags, CollFlag, ObjFlag)

	return &cli.Command{
		Name:   "metaquery",
		Usage:  "Search the catalog by metadata read from stdin",
		Flags:  flags,
		Action: fixedOpAction(types.OpMetaquery),
	}
}
