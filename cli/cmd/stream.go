package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/cli/config"
	"github.com/crozier-io/crozier/dispatch"
	"github.com/crozier-io/crozier/log"
	"github.com/crozier-io/crozier/stream"
	"github.com/crozier-io/crozier/types"
)

// Exit codes for streaming commands.
const (
	exitSuccess    = 0
	exitItemErrors = 1
	exitFatal      = 2
)

// secretEnvVar supplies the catalog secret when the config file carries
// none, keeping credentials out of argv.
const secretEnvVar = "CROZIER_SECRET"

// settings resolves the config file and flag overrides into one record.
// CLI flags always win over config values.
func settings(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(ConfigFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet(HostFlag.Name) {
		cfg.Catalog.Host = c.String(HostFlag.Name)
	}
	if c.IsSet(PortFlag.Name) {
		cfg.Catalog.Port = c.Int(PortFlag.Name)
	}
	if c.IsSet(ZoneFlag.Name) {
		cfg.Catalog.Zone = c.String(ZoneFlag.Name)
	}
	if c.IsSet(UserFlag.Name) {
		cfg.Catalog.User = c.String(UserFlag.Name)
	}
	if c.IsSet(ConnectTimeFlag.Name) {
		cfg.MaxConnectTime = config.Duration{Duration: c.Duration(ConnectTimeFlag.Name)}
	}
	if c.IsSet(BufferSizeFlag.Name) {
		cfg.BufferSize = c.Int(BufferSizeFlag.Name)
	}
	if c.Bool(UnbufferedFlag.Name) {
		cfg.Unbuffered = true
	}

	if cfg.Catalog.Secret == "" {
		cfg.Catalog.Secret = os.Getenv(secretEnvVar)
	}
	if cfg.Catalog.Host == "" {
		return nil, fmt.Errorf("no catalog host configured (flag --host or config file)")
	}

	return cfg, nil
}

// baseOptions builds the per-run option baseline from the boolean flags.
// The baseline is copied per item; envelope arguments add bits on top.
func baseOptions(c *cli.Context, cfg *config.Config) types.CallOptions {
	opts := types.CallOptions{
		BufferSize: cfg.BufferSize,
		Zone:       cfg.Catalog.Zone,
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = catalog.DefaultBufferSize
	}
	for _, def := range optionFlagDefs {
		if c.Bool(def.flag.Name) {
			opts.Flags = opts.Flags.With(def.mask)
		}
	}
	switch c.String(MetamodOpFlag.Name) {
	case types.MetaAddName:
		opts.Flags = opts.Flags.With(types.FlagAddAVU)
	case types.MetaRemoveName:
		opts.Flags = opts.Flags.With(types.FlagRemoveAVU)
	}
	return opts
}

// runStream wires a processor over stdin and stdout and drives it to
// completion with the handler that route selects from the router.
func runStream(c *cli.Context, route func(*dispatch.Router) stream.Handler) error {
	cfg, err := settings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("crozier: %v", err), exitFatal)
	}

	clientID := uuid.NewString()
	logger := log.NewLogger(log.Context{
		ClientID: clientID,
		Zone:     cfg.Catalog.Zone,
		Host:     cfg.Catalog.Host,
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	connCfg := catalog.Config{
		Host:     cfg.Catalog.Host,
		Port:     cfg.Catalog.Port,
		Zone:     cfg.Catalog.Zone,
		User:     cfg.Catalog.User,
		Secret:   cfg.Catalog.Secret,
		ClientID: clientID,
	}
	connect := func(ctx context.Context) (catalog.Session, error) {
		return catalog.Connect(ctx, connCfg, logger)
	}

	conns := stream.NewConnManager(connect, cfg.MaxConnectTime.Duration, nil, logger)
	proc := stream.NewProcessor(conns, os.Stdout, baseOptions(c, cfg), cfg.Unbuffered, logger)
	// Raw get streams share the processor's buffered writer so that raw
	// bytes and JSON results leave in item order.
	router := dispatch.NewRouter(logger, proc.Output())

	counts, err := proc.Run(ctx, os.Stdin, route(router))
	if err != nil {
		return cli.Exit(fmt.Sprintf("crozier: %v", err), exitFatal)
	}
	if counts.Errors > 0 {
		return cli.Exit("", exitItemErrors)
	}
	return nil
}

// fixedOpAction returns an action running a bare-mode stream where every
// input item is a target for one fixed operation.
func fixedOpAction(op types.Operation) cli.ActionFunc {
	return func(c *cli.Context) error {
		return runStream(c, func(r *dispatch.Router) stream.Handler {
			return r.FixedHandler(op)
		})
	}
}
