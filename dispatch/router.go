// Package dispatch routes operation envelopes to their handlers.
package dispatch

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/log"
	"github.com/crozier-io/crozier/types"
)

// handlerFunc executes one operation against a resolved target and
// returns its result JSON, or nil for a void operation.
type handlerFunc func(ctx context.Context, sess catalog.Session, target map[string]any, opts *types.CallOptions) (any, error)

// Router maps a declared operation name and flag set to a handler. The
// handler table is built once; routing is a map lookup, not a chain of
// string comparisons.
type Router struct {
	handlers map[types.Operation]handlerFunc
	logger   *log.Logger
	rawOut   io.Writer
}

// NewRouter creates a router. Raw get streams write to rawOut, which
// defaults to stdout. When the result stream is buffered, rawOut must
// be that same buffered writer, or raw bytes can overtake JSON results
// still sitting in the buffer.
func NewRouter(logger *log.Logger, rawOut io.Writer) *Router {
	if rawOut == nil {
		rawOut = os.Stdout
	}
	r := &Router{logger: logger, rawOut: rawOut}
	r.handlers = map[types.Operation]handlerFunc{
		types.OpList:      r.list,
		types.OpChmod:     r.chmod,
		types.OpChecksum:  r.checksum,
		types.OpMetamod:   r.metamod,
		types.OpMetaquery: r.metaquery,
		types.OpGet:       r.get,
		types.OpPut:       r.put,
		types.OpMove:      r.move,
		types.OpRemove:    r.remove,
		types.OpMkdir:     r.mkdir,
		types.OpRmdir:     r.rmdir,
	}
	return r
}

// Dispatch decodes the envelope's operation and option flags and invokes
// the matching handler. base is copied per call and never mutated: one
// envelope's flags cannot leak into the next.
func (r *Router) Dispatch(ctx context.Context, sess catalog.Session, env types.Envelope, base types.CallOptions) (any, error) {
	opName, cerr := env.OperationName()
	if cerr != nil {
		return nil, cerr
	}
	target, cerr := env.Target()
	if cerr != nil {
		return nil, cerr
	}

	opts := base
	args, cerr := env.Arguments()
	if cerr != nil {
		return nil, cerr
	}
	if err := applyArguments(&opts, args); err != nil {
		return nil, err
	}

	op, ok := types.ParseOperation(opName)
	if !ok {
		return nil, types.NewError(types.CodeInvalidOperation,
			"invalid operation '%s'", opName)
	}

	r.logger.Debug("dispatching operation", map[string]any{
		"operation": string(op),
	})

	result, err := r.handlers[op](ctx, sess, target, &opts)
	if err != nil {
		return nil, err
	}

	if (op == types.OpChecksum || op == types.OpPut) && opts.Flags.Has(types.FlagPrintChecksum) {
		result, err = r.attachChecksum(ctx, sess, target, result)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Handler adapts the router's full dispatch for a stream processor.
func (r *Router) Handler() func(context.Context, catalog.Session, types.Envelope, types.CallOptions) (any, error) {
	return r.Dispatch
}

// FixedHandler adapts a single fixed operation for bare-mode streams,
// where each input item is itself the target and the option flags come
// from the process baseline alone.
func (r *Router) FixedHandler(op types.Operation) func(context.Context, catalog.Session, types.Envelope, types.CallOptions) (any, error) {
	return func(ctx context.Context, sess catalog.Session, env types.Envelope, base types.CallOptions) (any, error) {
		opts := base
		result, err := r.handlers[op](ctx, sess, map[string]any(env), &opts)
		if err != nil {
			return nil, err
		}
		if (op == types.OpChecksum || op == types.OpPut) && opts.Flags.Has(types.FlagPrintChecksum) {
			result, err = r.attachChecksum(ctx, sess, map[string]any(env), result)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	}
}

// argFlags maps recognised boolean argument keys to their option bits.
var argFlags = []struct {
	key  string
	mask types.OptionFlags
}{
	{types.ArgACL, types.FlagPrintACL},
	{types.ArgAVU, types.FlagPrintAVU},
	{types.ArgChecksum, types.FlagCalculateChecksum | types.FlagPrintChecksum},
	{types.ArgContents, types.FlagPrintContents},
	{types.ArgReplicates, types.FlagPrintReplicas},
	{types.ArgSize, types.FlagPrintSize},
	{types.ArgTimestamp, types.FlagPrintTimestamp},
	{types.ArgRecurse, types.FlagRecursive},
	{types.ArgForce, types.FlagForce},
	{types.ArgCollection, types.FlagSearchCollections},
	{types.ArgObject, types.FlagSearchObjects},
	{types.ArgSingleServer, types.FlagSingleServer},
	{types.ArgSave, types.FlagSaveFiles},
	{types.ArgRaw, types.FlagPrintRaw},
}

// applyArguments folds the envelope's argument object into the per-call
// options copy.
func applyArguments(opts *types.CallOptions, args map[string]any) error {
	for _, af := range argFlags {
		set, err := argBool(args, af.key)
		if err != nil {
			return err
		}
		if set {
			opts.Flags = opts.Flags.With(af.mask)
		}
	}

	if raw, ok := args[types.ArgOperation]; ok {
		name, isString := raw.(string)
		if !isString {
			return types.NewError(types.CodeInvalidArgument,
				"operation argument was not a string")
		}
		switch name {
		case types.MetaAddName:
			opts.Flags = opts.Flags.With(types.FlagAddAVU)
		case types.MetaRemoveName:
			opts.Flags = opts.Flags.With(types.FlagRemoveAVU)
		default:
			return types.NewError(types.CodeInvalidOperation,
				"invalid operation argument '%s'", name)
		}
	}

	if raw, ok := args[types.ArgPath]; ok {
		path, isString := raw.(string)
		if !isString || path == "" {
			return types.NewError(types.CodeInvalidArgument,
				"path argument was not a non-empty string")
		}
		// Owned by the copy so it outlives the source JSON.
		opts.Path = strings.Clone(path)
	}

	return nil
}

func argBool(args map[string]any, key string) (bool, error) {
	raw, ok := args[key]
	if !ok {
		return false, nil
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, types.NewError(types.CodeInvalidArgument,
			"%s argument was not a boolean", key)
	}
	return b, nil
}

// attachChecksum post-processes a successful checksum or put result by
// attaching the catalog's digest. This runs once, after the primary
// handler has returned, and its failure is the overall failure.
func (r *Router) attachChecksum(ctx context.Context, sess catalog.Session, target map[string]any, result any) (any, error) {
	path, cerr := types.TargetPath(target)
	if cerr != nil {
		return nil, cerr
	}
	sum, err := sess.Checksum(ctx, path, false)
	if err != nil {
		return nil, err
	}

	obj, ok := result.(map[string]any)
	if !ok || obj == nil {
		obj = pathFacets(path)
	}
	obj[types.KeyChecksum] = sum
	return obj, nil
}
