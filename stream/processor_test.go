package stream

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/types"
)

func newTestProcessor(out *bytes.Buffer, connect Connector, maxLifetime time.Duration, clock Clock) *Processor {
	logger := connTestLogger()
	conns := NewConnManager(connect, maxLifetime, clock, logger)
	return NewProcessor(conns, out, types.CallOptions{}, false, logger)
}

func nullConnector() Connector {
	return func(context.Context) (catalog.Session, error) {
		return &nullSession{}, nil
	}
}

// resultHandler returns a scripted result, or the scripted error.
func resultHandler(result any, err error) Handler {
	return func(context.Context, catalog.Session, types.Envelope, types.CallOptions) (any, error) {
		return result, err
	}
}

func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var items []map[string]any
	dec := json.NewDecoder(out)
	for dec.More() {
		var item map[string]any
		if err := dec.Decode(&item); err != nil {
			t.Fatalf("decoding output: %v", err)
		}
		items = append(items, item)
	}
	return items
}

func TestRun_EnvelopedResult(t *testing.T) {
	input := `{"operation": "list", "target": {"collection": "/zone/a"}}`
	var out bytes.Buffer

	p := newTestProcessor(&out, nullConnector(), 0, nil)
	result := map[string]any{"collection": "/zone/a", "size": 1}
	counts, err := p.Run(context.Background(), strings.NewReader(input), resultHandler(result, nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if counts.Items != 1 || counts.Errors != 0 {
		t.Errorf("counts = %+v, want 1 item, 0 errors", counts)
	}

	items := decodeLines(t, &out)
	if len(items) != 1 {
		t.Fatalf("output items = %d, want 1", len(items))
	}
	// The input envelope comes back with exactly one result field added.
	if items[0][types.KeyOperation] != "list" {
		t.Error("input envelope not echoed")
	}
	if _, ok := items[0][types.KeyResult].(map[string]any); !ok {
		t.Errorf("result = %v, want attached object", items[0][types.KeyResult])
	}
	if _, ok := items[0][types.KeyError]; ok {
		t.Error("error field present on success")
	}
}

func TestRun_BareResult(t *testing.T) {
	input := `{"collection": "/zone/a", "data_object": "x.txt"}`
	var out bytes.Buffer

	p := newTestProcessor(&out, nullConnector(), 0, nil)
	result := map[string]any{"collection": "/zone/a", "data_object": "x.txt", "size": 9}
	_, err := p.Run(context.Background(), strings.NewReader(input), resultHandler(result, nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	items := decodeLines(t, &out)
	if len(items) != 1 {
		t.Fatalf("output items = %d, want 1", len(items))
	}
	// Bare items are replaced by the result, never re-wrapped.
	if _, ok := items[0][types.KeyResult]; ok {
		t.Error("bare result was wrapped under the result key")
	}
	if items[0]["size"] != float64(9) {
		t.Errorf("size = %v, want 9", items[0]["size"])
	}
}

func TestRun_VoidEchoesInput(t *testing.T) {
	input := `{"operation": "move", "arguments": {"path": "/zone/b"}, "target": {"collection": "/zone/a", "data_object": "x"}}`
	var out bytes.Buffer

	p := newTestProcessor(&out, nullConnector(), 0, nil)
	_, err := p.Run(context.Background(), strings.NewReader(input), resultHandler(nil, nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	items := decodeLines(t, &out)
	if len(items) != 1 {
		t.Fatalf("output items = %d, want 1", len(items))
	}
	if _, ok := items[0][types.KeyResult]; ok {
		t.Error("void operation output carries a result field")
	}
	if items[0][types.KeyOperation] != "move" {
		t.Error("void operation did not echo the input envelope")
	}
}

func TestRun_HandlerErrorAttachedToEnvelope(t *testing.T) {
	input := `{"operation": "list", "target": {"collection": "/zone/a"}}`
	var out bytes.Buffer

	p := newTestProcessor(&out, nullConnector(), 0, nil)
	failure := types.NewError(types.CodeNotFound, "no such path")
	counts, err := p.Run(context.Background(), strings.NewReader(input), resultHandler(nil, failure))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if counts.Items != 1 || counts.Errors != 1 {
		t.Errorf("counts = %+v, want 1 item, 1 error", counts)
	}

	items := decodeLines(t, &out)
	report, ok := items[0][types.KeyError].(map[string]any)
	if !ok {
		t.Fatalf("error report = %v, want object", items[0][types.KeyError])
	}
	if report[types.KeyErrorCode] != float64(types.CodeNotFound) {
		t.Errorf("error_code = %v, want %d", report[types.KeyErrorCode], types.CodeNotFound)
	}
	if _, ok := items[0][types.KeyResult]; ok {
		t.Error("result present alongside error")
	}
}

func TestRun_MalformedItemsCountedAndSkipped(t *testing.T) {
	input := `{"collection": "/zone/a"}
not json at all
42
{"collection": "/zone/b"}
`
	var out bytes.Buffer
	handled := 0
	handler := func(context.Context, catalog.Session, types.Envelope, types.CallOptions) (any, error) {
		handled++
		return nil, nil
	}

	p := newTestProcessor(&out, nullConnector(), 0, nil)
	counts, err := p.Run(context.Background(), strings.NewReader(input), handler)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if handled != 2 {
		t.Errorf("handler invocations = %d, want 2", handled)
	}
	if counts.Items != 2 {
		t.Errorf("Items = %d, want 2", counts.Items)
	}
	if counts.Errors != 2 {
		t.Errorf("Errors = %d, want 2", counts.Errors)
	}

	items := decodeLines(t, &out)
	if len(items) != 4 {
		t.Fatalf("output items = %d, want one per input item", len(items))
	}
}

func TestRun_RawBytesFollowEarlierResults(t *testing.T) {
	// One buffered writer carries both result JSON and raw byte streams.
	// The second item writes raw bytes through Output(); the first item's
	// JSON, though still buffered when the bytes are written, must reach
	// the sink first.
	input := `{"collection": "/zone/a", "data_object": "small.txt"}
{"collection": "/zone/a", "data_object": "big.bin"}
`
	var out bytes.Buffer

	p := newTestProcessor(&out, nullConnector(), 0, nil)
	item := 0
	handler := func(_ context.Context, _ catalog.Session, env types.Envelope, _ types.CallOptions) (any, error) {
		item++
		if item == 2 {
			if _, err := p.Output().Write([]byte("\x00\x01payload\x02\n")); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return map[string]any{"data": "hello"}, nil
	}

	counts, err := p.Run(context.Background(), strings.NewReader(input), handler)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if counts.Items != 2 || counts.Errors != 0 {
		t.Errorf("counts = %+v, want 2 items, 0 errors", counts)
	}

	got := out.String()
	jsonAt := strings.Index(got, `"hello"`)
	rawAt := strings.Index(got, "\x00\x01payload\x02")
	if jsonAt < 0 || rawAt < 0 {
		t.Fatalf("output missing a stream: %q", got)
	}
	if rawAt < jsonAt {
		t.Errorf("raw bytes precede the first item's result:\n%q", got)
	}
}

func TestRun_NilInputIsFatal(t *testing.T) {
	var out bytes.Buffer
	p := newTestProcessor(&out, nullConnector(), 0, nil)

	_, err := p.Run(context.Background(), nil, resultHandler(nil, nil))
	if err == nil {
		t.Fatal("Run with nil input succeeded, want error")
	}
}

func TestRun_ConnectFailureIsFatal(t *testing.T) {
	input := `{"collection": "/zone/a"}
{"collection": "/zone/b"}
`
	calls := 0
	connect := func(context.Context) (catalog.Session, error) {
		calls++
		return nil, &catalog.SessionError{
			Kind: catalog.ErrNetwork,
			Op:   "connect",
			Err:  errors.New("refused"),
		}
	}
	var out bytes.Buffer

	p := newTestProcessor(&out, connect, 0, nil)
	counts, err := p.Run(context.Background(), strings.NewReader(input), resultHandler(nil, nil))
	if err == nil {
		t.Fatal("Run with failing connector succeeded, want error")
	}
	if !errors.Is(err, catalog.ErrNetwork) {
		t.Errorf("err = %v, want network classification", err)
	}
	if calls != 1 {
		t.Errorf("connect attempts = %d, want 1 (run stops)", calls)
	}
	if counts.Items != 0 {
		t.Errorf("Items = %d, want 0", counts.Items)
	}
}

func TestRun_RotationProducesIdenticalOutput(t *testing.T) {
	input := `{"collection": "/zone/a"}
{"collection": "/zone/b"}
`
	handler := func(_ context.Context, _ catalog.Session, env types.Envelope, _ types.CallOptions) (any, error) {
		return map[string]any{"collection": env[types.KeyCollection]}, nil
	}

	run := func(maxLifetime time.Duration, clock *fakeClock) (string, int) {
		opens := 0
		connect := func(context.Context) (catalog.Session, error) {
			opens++
			return &nullSession{}, nil
		}
		logger := connTestLogger()
		var c Clock
		if clock != nil {
			c = clock
		}
		conns := NewConnManager(connect, maxLifetime, c, logger)
		// Advance past the lifetime after each open so every item rotates.
		wrapped := func(ctx context.Context, sess catalog.Session, env types.Envelope, opts types.CallOptions) (any, error) {
			if clock != nil {
				clock.Advance(time.Minute)
			}
			return handler(ctx, sess, env, opts)
		}
		var out bytes.Buffer
		p := NewProcessor(conns, &out, types.CallOptions{}, false, logger)
		if _, err := p.Run(context.Background(), strings.NewReader(input), wrapped); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return out.String(), opens
	}

	plain, plainOpens := run(0, nil)
	rotated, rotatedOpens := run(time.Second, &fakeClock{now: time.Unix(1000, 0)})

	if plainOpens != 1 {
		t.Errorf("opens without rotation = %d, want 1", plainOpens)
	}
	if rotatedOpens != 2 {
		t.Errorf("opens with rotation = %d, want 2", rotatedOpens)
	}
	if plain != rotated {
		t.Errorf("rotated output differs:\nplain:   %srotated: %s", plain, rotated)
	}
}
