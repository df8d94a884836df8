package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/crozier-io/crozier/types"
)

func TestScanner_SequentialItems(t *testing.T) {
	input := `{"collection": "/zone/a"}
{"collection": "/zone/b"}
`
	s := NewScanner(strings.NewReader(input))

	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if first[types.KeyCollection] != "/zone/a" {
		t.Errorf("first = %v, want /zone/a", first)
	}

	second, err := s.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if second[types.KeyCollection] != "/zone/b" {
		t.Errorf("second = %v, want /zone/b", second)
	}

	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next at end = %v, want io.EOF", err)
	}
}

func TestScanner_ResyncAfterMalformedLine(t *testing.T) {
	input := `{"collection": "/zone/a"}
{"collection": broken
{"collection": "/zone/c"}
`
	s := NewScanner(strings.NewReader(input))

	if _, err := s.Next(); err != nil {
		t.Fatalf("Next failed on valid first item: %v", err)
	}

	_, err := s.Next()
	ce := types.AsError(err)
	if ce == nil || ce.Code != types.CodeMalformedInput {
		t.Fatalf("Next = %v, want malformed input error", err)
	}

	third, err := s.Next()
	if err != nil {
		t.Fatalf("Next after resync failed: %v", err)
	}
	if third[types.KeyCollection] != "/zone/c" {
		t.Errorf("third = %v, want /zone/c", third)
	}
}

func TestScanner_NonObjectItem(t *testing.T) {
	s := NewScanner(strings.NewReader(`[1, 2, 3]`))

	_, err := s.Next()
	ce := types.AsError(err)
	if ce == nil || ce.Code != types.CodeMalformedInput {
		t.Fatalf("Next = %v, want malformed input error", err)
	}
}

func TestScanner_DuplicateKeysRejected(t *testing.T) {
	s := NewScanner(strings.NewReader(`{"operation": "list", "operation": "rm"}`))

	_, err := s.Next()
	ce := types.AsError(err)
	if ce == nil || ce.Code != types.CodeMalformedInput {
		t.Fatalf("Next = %v, want malformed input error", err)
	}
}

func TestScanner_NestedDuplicatesAllowedAcrossObjects(t *testing.T) {
	// The same key in sibling objects is fine; only repetition within one
	// object is a duplicate.
	input := `{"target": {"collection": "/a"}, "arguments": {"collection": true}}`
	s := NewScanner(strings.NewReader(input))

	if _, err := s.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
}

func TestScanner_EmptyInput(t *testing.T) {
	s := NewScanner(strings.NewReader(""))
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next on empty input = %v, want io.EOF", err)
	}
}
