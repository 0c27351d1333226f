package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"qir/internal/rtlib"
	"qir/internal/scenario"
)

func emit(t *testing.T, names ...string) []*scenario.Result {
	t.Helper()
	programs, err := scenario.Select(names)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	results, err := scenario.EmitAll(context.Background(), programs, scenario.Options{}, 2)
	if err != nil {
		t.Fatalf("EmitAll: %v", err)
	}
	return results
}

func TestSummarizeRecordRoundTrip(t *testing.T) {
	fn := Summarize(emit(t, "record-roundtrip")[0])

	if fn.Name != scenario.FunctionName("record-roundtrip") {
		t.Fatalf("Name = %q", fn.Name)
	}
	if got := fn.RuntimeCalls[rtlib.TupleCreate.Name()]; got != 1 {
		t.Fatalf("tuple_create = %d, want 1", got)
	}
	cases := map[string]int{"bitcast": 1, "getelementptr": 2, "store": 2, "load": 0, "ret": 1}
	for op, want := range cases {
		if got := fn.Instructions[op]; got != want {
			t.Errorf("%s = %d, want %d", op, got, want)
		}
	}
	if fn.Scope["register"] != 1 || fn.Scope["release"] != 1 {
		t.Fatalf("scope activity = %v", fn.Scope)
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.msgpack")
	f := Build("x86_64-unknown-linux-gnu", emit(t, "nested-loops", "callable-capture"))
	if err := Write(path, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Functions) != 2 || got.Functions[0].Scenario != "callable-capture" {
		t.Fatalf("functions = %+v", got.Functions)
	}
	if got.Functions[1].Blocks != f.Functions[1].Blocks {
		t.Fatalf("blocks = %d, want %d", got.Functions[1].Blocks, f.Functions[1].Blocks)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestReadRejectsOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.msgpack")
	data, err := msgpack.Marshal(&File{Schema: schemaVersion + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read(path); !errors.Is(err, ErrSchema) {
		t.Fatalf("Read err = %v, want ErrSchema", err)
	}
}
