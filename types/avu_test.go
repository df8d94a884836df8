package types

import "testing"

func TestParseAVU_UnitsDefaultEmpty(t *testing.T) {
	avu, err := ParseAVU(map[string]any{
		KeyAttribute: "weight",
		KeyValue:     "42",
	})
	if err != nil {
		t.Fatalf("ParseAVU failed: %v", err)
	}
	if avu.Units != "" {
		t.Errorf("Units = %q, want empty string", avu.Units)
	}
}

func TestParseAVU_MissingValue(t *testing.T) {
	if _, err := ParseAVU(map[string]any{KeyAttribute: "weight"}); err == nil {
		t.Fatal("ParseAVU without value succeeded, want error")
	}
}

func TestParseAVUArray(t *testing.T) {
	target := map[string]any{
		KeyAVUs: []any{
			map[string]any{KeyAttribute: "a", KeyValue: "1"},
			map[string]any{KeyAttribute: "b", KeyValue: "2", KeyUnits: "kg"},
		},
	}
	avus, err := ParseAVUArray(target)
	if err != nil {
		t.Fatalf("ParseAVUArray failed: %v", err)
	}
	if len(avus) != 2 {
		t.Fatalf("len(avus) = %d, want 2", len(avus))
	}
	if avus[1].Units != "kg" {
		t.Errorf("avus[1].Units = %q, want %q", avus[1].Units, "kg")
	}
}

func TestParseAVUArray_NotAnArray(t *testing.T) {
	if _, err := ParseAVUArray(map[string]any{KeyAVUs: "nope"}); err == nil {
		t.Fatal("ParseAVUArray with non-array succeeded, want error")
	}
}

func TestParseAccessArray(t *testing.T) {
	target := map[string]any{
		KeyAccess: []any{
			map[string]any{KeyOwner: "ann", KeyLevel: "own", KeyZone: "testZone"},
			map[string]any{KeyOwner: "public", KeyLevel: "read"},
		},
	}
	perms, err := ParseAccessArray(target)
	if err != nil {
		t.Fatalf("ParseAccessArray failed: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("len(perms) = %d, want 2", len(perms))
	}
	if perms[0].Zone != "testZone" {
		t.Errorf("perms[0].Zone = %q, want %q", perms[0].Zone, "testZone")
	}
	if perms[1].Zone != "" {
		t.Errorf("perms[1].Zone = %q, want empty", perms[1].Zone)
	}
}
