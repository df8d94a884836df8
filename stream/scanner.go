package stream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/crozier-io/crozier/types"
)

// Scanner reads a stream of whitespace-separated JSON values and yields
// them as envelopes. A malformed fragment does not poison the stream:
// the scanner discards input through the next newline and resumes, so
// later items still decode.
type Scanner struct {
	rd  io.Reader
	dec *json.Decoder
}

// NewScanner creates a scanner over r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{rd: r, dec: json.NewDecoder(r)}
}

// Next decodes the next input item. Malformed JSON and non-object
// values return a *types.Error with the malformed-input code; io.EOF
// signals a cleanly exhausted stream.
func (s *Scanner) Next() (types.Envelope, error) {
	var raw json.RawMessage
	if err := s.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		s.resync()
		return nil, types.NewError(types.CodeMalformedInput,
			"failed to parse JSON input: %v", err)
	}

	if err := checkDuplicateKeys(raw); err != nil {
		return nil, types.NewError(types.CodeMalformedInput,
			"failed to parse JSON input: %v", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, types.NewError(types.CodeMalformedInput,
			"failed to parse JSON input: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, types.NewError(types.CodeMalformedInput,
			"input item was not a JSON object")
	}

	return types.Envelope(obj), nil
}

// resync discards buffered and pending input through the next newline
// and rebuilds the decoder over what remains.
func (s *Scanner) resync() {
	br := bufio.NewReader(io.MultiReader(s.dec.Buffered(), s.rd))
	_, _ = br.ReadString('\n')
	s.rd = br
	s.dec = json.NewDecoder(br)
}

// checkDuplicateKeys walks the raw value's tokens and rejects any object
// declaring the same key twice. Silently-last-wins decoding would let
// conflicting operation fields slip through unnoticed.
func checkDuplicateKeys(raw []byte) error {
	type objFrame struct {
		inObject  bool
		expectKey bool
		keys      map[string]struct{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var stack []objFrame

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		top := len(stack) - 1
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, objFrame{
					inObject:  true,
					expectKey: true,
					keys:      make(map[string]struct{}),
				})
			case '[':
				stack = append(stack, objFrame{})
			case '}', ']':
				stack = stack[:top]
				if top > 0 && stack[top-1].inObject {
					stack[top-1].expectKey = true
				}
			}
		case string:
			if top >= 0 && stack[top].inObject && stack[top].expectKey {
				if _, dup := stack[top].keys[t]; dup {
					return fmt.Errorf("duplicate object key '%s'", t)
				}
				stack[top].keys[t] = struct{}{}
				stack[top].expectKey = false
			} else if top >= 0 && stack[top].inObject {
				stack[top].expectKey = true
			}
		default:
			if top >= 0 && stack[top].inObject {
				stack[top].expectKey = true
			}
		}
	}
}
