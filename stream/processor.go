// Package stream drives the batch loop: reading JSON items from an
// input, executing each against a catalog session and emitting one JSON
// value per item to the output.
package stream

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/goccy/go-json"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/iox"
	"github.com/crozier-io/crozier/log"
	"github.com/crozier-io/crozier/types"
)

// Handler executes one input item against a catalog session and returns
// its result JSON, or nil for a void operation.
type Handler func(ctx context.Context, sess catalog.Session, env types.Envelope, opts types.CallOptions) (any, error)

// Counts summarises one stream run.
type Counts struct {
	// Items is the number of parsed input objects fed to the handler.
	Items int
	// Errors is the number of failed items, malformed input included.
	Errors int
}

// Processor runs a stream of input items to completion. It owns the
// single buffered writer to the output: everything an item produces,
// JSON values and raw byte streams alike, goes through that one writer
// so output stays in item order.
type Processor struct {
	conns  *ConnManager
	logger *log.Logger
	opts   types.CallOptions
	eager  bool
	w      *bufio.Writer
	enc    *json.Encoder
}

// NewProcessor creates a processor writing to out. opts is the per-run
// baseline copied into every item's dispatch. When eager is set the
// output is flushed after every item, for interactive and pipelined use.
func NewProcessor(conns *ConnManager, out io.Writer, opts types.CallOptions, eager bool, logger *log.Logger) *Processor {
	w := bufio.NewWriter(out)
	return &Processor{
		conns:  conns,
		logger: logger,
		opts:   opts,
		eager:  eager,
		w:      w,
		enc:    json.NewEncoder(w),
	}
}

// Output returns the processor's buffered output writer. A handler that
// streams raw bytes must write through it, never through the underlying
// sink directly: bypassing the buffer would let a later item's bytes
// overtake an earlier item's still-buffered JSON.
func (p *Processor) Output() io.Writer {
	return p.w
}

// Run reads items from in until exhaustion, dispatching each through
// handle and emitting one JSON value per item. Per-item failures are
// reported on the output stream and counted; only input exhaustion,
// context cancellation, a connect failure or an output write failure
// ends the run. A nil input is a precondition failure, distinct from an
// empty stream.
func (p *Processor) Run(ctx context.Context, in io.Reader, handle Handler) (Counts, error) {
	var counts Counts
	if in == nil {
		return counts, types.NewError(types.CodeInvalidArgument, "no input stream")
	}

	scanner := NewScanner(in)

	defer iox.DiscardErr(p.conns.Close)
	defer p.logCounts(&counts)

	for {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		env, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The item never parsed; its output is a bare error report.
			counts.Errors++
			p.logger.Warn("skipping malformed input item", map[string]any{
				"error": err.Error(),
			})
			report := types.Envelope{}
			report.SetError(types.AsError(err))
			if werr := p.emit(map[string]any(report)); werr != nil {
				return counts, werr
			}
			continue
		}

		sess, err := p.conns.Session(ctx)
		if err != nil {
			// Failing to open a session mid-stream abandons the current
			// item and ends the run; the counts so far still stand.
			return counts, err
		}

		counts.Items++
		result, err := handle(ctx, sess, env, p.opts)
		if err != nil {
			counts.Errors++
			env.SetError(types.AsError(err))
		}

		var output any
		switch {
		case err != nil:
			output = map[string]any(env)
		case result == nil:
			// Void operation: echo the input unchanged.
			output = map[string]any(env)
		case env.HasOperation() && env.HasTarget():
			env.SetResult(result)
			output = map[string]any(env)
		default:
			output = result
		}

		if werr := p.emit(output); werr != nil {
			return counts, werr
		}

		if rerr := p.conns.Rotate(); rerr != nil {
			p.logger.Warn("failed to close rotated connection", map[string]any{
				"error": rerr.Error(),
			})
		}
	}

	if err := p.w.Flush(); err != nil {
		return counts, types.NewError(types.CodeGeneral,
			"failed to flush output: %v", err)
	}
	return counts, nil
}

// emit writes one JSON value followed by a newline.
func (p *Processor) emit(v any) error {
	if err := p.enc.Encode(v); err != nil {
		return types.NewError(types.CodeGeneral,
			"failed to encode output item: %v", err)
	}
	if p.eager {
		if err := p.w.Flush(); err != nil {
			return types.NewError(types.CodeGeneral,
				"failed to flush output: %v", err)
		}
	}
	return nil
}

// logCounts reports the run's aggregate once, at WARN when any item
// failed so that error-free runs stay quiet at the default level.
func (p *Processor) logCounts(counts *Counts) {
	fields := map[string]any{
		"items":  counts.Items,
		"errors": counts.Errors,
	}
	if counts.Errors > 0 {
		p.logger.Warn("processed items with errors", fields)
	} else {
		p.logger.Debug("processed items", fields)
	}
}
