// Package report summarizes emitted scenario functions and persists the
// summaries as msgpack.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/vmihailenco/msgpack/v5"

	"qir/internal/scenario"
)

// Current schema version - increment when the File format changes
const schemaVersion uint16 = 1

// ErrSchema is returned when a report file was written by another schema.
var ErrSchema = errors.New("report: schema mismatch")

// File is the on-disk form of a report.
type File struct {
	Schema    uint16
	Target    string
	Functions []Function
}

// Function summarizes one emitted function.
type Function struct {
	Scenario     string
	Name         string
	Blocks       int
	Instructions map[string]int // by opcode, terminators included
	RuntimeCalls map[string]int // by runtime symbol name
	Scope        map[string]int // scope-manager events by op
}

// Summarize builds the summary of one scenario result.
func Summarize(res *scenario.Result) Function {
	fn := Function{
		Scenario:     res.Scenario,
		Name:         res.Func.Name(),
		Blocks:       len(res.Func.Blocks),
		Instructions: make(map[string]int),
		RuntimeCalls: make(map[string]int),
		Scope:        make(map[string]int),
	}
	for _, b := range res.Func.Blocks {
		for _, inst := range b.Insts {
			fn.Instructions[opcode(inst, "*ir.Inst")]++
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}
			if callee, ok := call.Callee.(*ir.Func); ok && strings.HasPrefix(callee.Name(), "__quantum__rt__") {
				fn.RuntimeCalls[callee.Name()]++
			}
		}
		if b.Term != nil {
			fn.Instructions[opcode(b.Term, "*ir.Term")]++
		}
	}
	for _, e := range res.Events {
		fn.Scope[e.Op.String()]++
	}
	return fn
}

func opcode(v any, prefix string) string {
	return strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", v), prefix))
}

// Build summarizes results in order.
func Build(target string, results []*scenario.Result) *File {
	f := &File{Schema: schemaVersion, Target: target}
	for _, res := range results {
		f.Functions = append(f.Functions, Summarize(res))
	}
	sort.SliceStable(f.Functions, func(i, j int) bool {
		return f.Functions[i].Scenario < f.Functions[j].Scenario
	})
	return f
}

// Write encodes f to path, replacing any existing file atomically.
func Write(path string, f *File) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "report-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(tmp).Encode(f); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("report: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read decodes a report written by Write.
func Read(path string) (*File, error) {
	data, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	var f File
	if err := msgpack.NewDecoder(data).Decode(&f); err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", path, err)
	}
	if f.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, f.Schema, schemaVersion)
	}
	return &f, nil
}
