// Package cmd provides CLI commands for the crozier binary.
package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/types"
)

// Connection and stream flags shared by every streaming command.
var (
	// ConfigFlag points at a crozier.yaml config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to crozier.yaml config file",
	}

	// HostFlag overrides the configured catalog host.
	HostFlag = &cli.StringFlag{
		Name:  "host",
		Usage: "Catalog service host",
	}

	// PortFlag overrides the configured catalog port.
	PortFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Catalog service port",
	}

	// ZoneFlag overrides the configured catalog zone.
	ZoneFlag = &cli.StringFlag{
		Name:  "zone",
		Usage: "Catalog zone to scope operations to",
	}

	// UserFlag overrides the configured catalog user.
	UserFlag = &cli.StringFlag{
		Name:  "user",
		Usage: "Catalog user name",
	}

	// ConnectTimeFlag bounds a connection's lifetime before rotation.
	ConnectTimeFlag = &cli.DurationFlag{
		Name:  "connect-time",
		Usage: "Maximum connection lifetime before rotation (0 disables)",
	}

	// BufferSizeFlag sets the transfer chunk size.
	BufferSizeFlag = &cli.IntFlag{
		Name:  "buffer-size",
		Usage: "Transfer buffer size in bytes",
	}

	// UnbufferedFlag flushes the output after every item.
	UnbufferedFlag = &cli.BoolFlag{
		Name:  "unbuffered",
		Usage: "Flush output after every item",
	}
)

// Per-operation boolean flags. Each sets one option bit in the
// process-wide baseline; envelope arguments can only add bits on top.
var (
	ACLFlag = &cli.BoolFlag{
		Name:  "acl",
		Usage: "Print access control lists in output",
	}
	AVUFlag = &cli.BoolFlag{
		Name:  "avu",
		Usage: "Print metadata AVUs in output",
	}
	ChecksumFlag = &cli.BoolFlag{
		Name:  "checksum",
		Usage: "Calculate and print checksums in output",
	}
	ContentsFlag = &cli.BoolFlag{
		Name:  "contents",
		Usage: "Print collection contents in output",
	}
	ReplicateFlag = &cli.BoolFlag{
		Name:  "replicate",
		Usage: "Print data object replicates in output",
	}
	SizeFlag = &cli.BoolFlag{
		Name:  "size",
		Usage: "Print data object sizes in output",
	}
	TimestampFlag = &cli.BoolFlag{
		Name:  "timestamp",
		Usage: "Print timestamps in output",
	}
	RecurseFlag = &cli.BoolFlag{
		Name:  "recurse",
		Usage: "Apply the operation recursively",
	}
	ForceFlag = &cli.BoolFlag{
		Name:  "force",
		Usage: "Force the operation",
	}
	CollFlag = &cli.BoolFlag{
		Name:  "coll",
		Usage: "Search collection metadata",
	}
	ObjFlag = &cli.BoolFlag{
		Name:  "obj",
		Usage: "Search data object metadata",
	}
	SingleServerFlag = &cli.BoolFlag{
		Name:  "single-server",
		Usage: "Route transfers through the connected server only",
	}
	SaveFlag = &cli.BoolFlag{
		Name:  "save",
		Usage: "Save fetched data objects to local files",
	}
	RawFlag = &cli.BoolFlag{
		Name:  "raw",
		Usage: "Write fetched bytes directly to stdout",
	}

	// MetamodOpFlag selects the metadata sub-operation for metamod.
	MetamodOpFlag = &cli.StringFlag{
		Name:     "operation",
		Usage:    "Metadata operation: add or rm",
		Required: true,
	}
)

// StreamFlags returns the flags shared by all streaming commands.
func StreamFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		HostFlag,
		PortFlag,
		ZoneFlag,
		UserFlag,
		ConnectTimeFlag,
		BufferSizeFlag,
		UnbufferedFlag,
	}
}

// optionFlagDefs maps boolean CLI flags to their option bits.
var optionFlagDefs = []struct {
	flag *cli.BoolFlag
	mask types.OptionFlags
}{
	{ACLFlag, types.FlagPrintACL},
	{AVUFlag, types.FlagPrintAVU},
	{ChecksumFlag, types.FlagCalculateChecksum | types.FlagPrintChecksum},
	{ContentsFlag, types.FlagPrintContents},
	{ReplicateFlag, types.FlagPrintReplicas},
	{SizeFlag, types.FlagPrintSize},
	{TimestampFlag, types.FlagPrintTimestamp},
	{RecurseFlag, types.FlagRecursive},
	{ForceFlag, types.FlagForce},
	{CollFlag, types.FlagSearchCollections},
	{ObjFlag, types.FlagSearchObjects},
	{SingleServerFlag, types.FlagSingleServer},
	{SaveFlag, types.FlagSaveFiles},
	{RawFlag, types.FlagPrintRaw},
}
