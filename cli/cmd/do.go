package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/dispatch"
	"github.com/crozier-io/crozier/stream"
)

// DoCommand returns the do command: a stream of self-describing
// envelopes, each declaring its own operation, arguments and target.
func DoCommand() *cli.Command {
	flags := StreamFlags()
	flags = append(flags, SingleServerFlag)

	return &cli.Command{
		Name:  "do",
		Usage: "Execute a stream of operation envelopes from stdin",
		Flags: flags,
		Action: func(c *cli.Context) error {
			return runStream(c, func(r *dispatch.Router) stream.Handler {
				return r.Handler()
			})
		},
	}
}
