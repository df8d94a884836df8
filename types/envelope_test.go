package types

import "testing"

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name    string
		target  map[string]any
		want    string
		wantErr bool
	}{
		{
			name:   "data object",
			target: map[string]any{KeyCollection: "/zone/home", KeyDataObject: "a.txt"},
			want:   "/zone/home/a.txt",
		},
		{
			name:   "collection only",
			target: map[string]any{KeyCollection: "/zone/home"},
			want:   "/zone/home",
		},
		{
			name:    "missing collection",
			target:  map[string]any{KeyDataObject: "a.txt"},
			wantErr: true,
		},
		{
			name:    "non-string collection",
			target:  map[string]any{KeyCollection: 42.0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetPath(tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatal("TargetPath succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("TargetPath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("TargetPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalPath_Defaults(t *testing.T) {
	target := map[string]any{
		KeyCollection: "/zone/home",
		KeyDataObject: "a.txt",
	}
	got, err := LocalPath(target)
	if err != nil {
		t.Fatalf("LocalPath failed: %v", err)
	}
	if got != "a.txt" {
		t.Errorf("LocalPath = %q, want %q", got, "a.txt")
	}
}

func TestLocalPath_ExplicitDirectoryAndFile(t *testing.T) {
	target := map[string]any{
		KeyCollection: "/zone/home",
		KeyDataObject: "a.txt",
		KeyDirectory:  "/tmp/out",
		KeyFile:       "renamed.txt",
	}
	got, err := LocalPath(target)
	if err != nil {
		t.Fatalf("LocalPath failed: %v", err)
	}
	if got != "/tmp/out/renamed.txt" {
		t.Errorf("LocalPath = %q, want %q", got, "/tmp/out/renamed.txt")
	}
}

func TestEnvelope_TargetBareItem(t *testing.T) {
	env := Envelope{KeyCollection: "/zone/home"}

	target, err := env.Target()
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if target[KeyCollection] != "/zone/home" {
		t.Error("bare item is not its own target")
	}
}

func TestEnvelope_OperationWithoutTarget(t *testing.T) {
	env := Envelope{KeyOperation: "list"}

	if _, err := env.Target(); err == nil {
		t.Fatal("Target succeeded for operation without target, want error")
	}
}

func TestEnvelope_SetError(t *testing.T) {
	env := Envelope{KeyCollection: "/zone/home"}
	env.SetError(NewError(CodeNotFound, "no such path"))

	report, ok := env[KeyError].(map[string]any)
	if !ok {
		t.Fatal("error report was not a JSON object")
	}
	if report[KeyErrorCode] != CodeNotFound {
		t.Errorf("error_code = %v, want %d", report[KeyErrorCode], CodeNotFound)
	}
	if report[KeyErrorMessage] != "no such path" {
		t.Errorf("error_message = %v, want %q", report[KeyErrorMessage], "no such path")
	}
}

func TestParseOperation(t *testing.T) {
	op, ok := ParseOperation("METAQUERY")
	if !ok {
		t.Fatal("ParseOperation rejected METAQUERY")
	}
	if op != OpMetaquery {
		t.Errorf("op = %q, want %q", op, OpMetaquery)
	}

	if _, ok := ParseOperation("explode"); ok {
		t.Error("ParseOperation accepted an unknown name")
	}
}
