package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qir/internal/ice"
	"qir/internal/report"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := execute(root, append([]string{"--color", "off"}, args...), &stderr)
	return stdout.String(), stderr.String(), code
}

func TestEmitPrintsSelectedScenario(t *testing.T) {
	cfg := writeConfig(t, "[emit]\nparallel = 1\n")
	out, errOut, code := run(t, "emit", "--config", cfg, "--scenario", "record-roundtrip")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"; scenario: record-roundtrip", "define void @Scenario__record_roundtrip", "__quantum__rt__tuple_create"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if strings.Contains(out, "; scenario: nested-loops") {
		t.Errorf("only the selected scenario must be emitted")
	}
}

func TestEmitUsesConfigScenarios(t *testing.T) {
	cfg := writeConfig(t, "[emit]\nscenarios = [\"callable-capture\", \"nested-loops\"]\ninline_aggregates = true\n")
	out, errOut, code := run(t, "emit", "--config", cfg)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	first := strings.Index(out, "; scenario: callable-capture")
	second := strings.Index(out, "; scenario: nested-loops")
	if first < 0 || second < first {
		t.Fatalf("scenarios missing or out of order:\n%s", out)
	}
}

func TestEmitWritesFilesAndReport(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "")
	irPath := filepath.Join(dir, "out.ll")
	reportPath := filepath.Join(dir, "out.msgpack")

	_, errOut, code := run(t, "emit", "--config", cfg, "-o", irPath, "--report", reportPath,
		"--scenario", "array-loop-mutation", "--scenario", "generated-records")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	ll, err := os.ReadFile(irPath)
	if err != nil || !strings.Contains(string(ll), "__quantum__rt__array_create_1d") {
		t.Fatalf("IR file missing or incomplete: %v", err)
	}
	f, err := report.Read(reportPath)
	if err != nil {
		t.Fatalf("report.Read: %v", err)
	}
	if len(f.Functions) != 2 || f.Target != "x86_64-unknown-linux-gnu" {
		t.Fatalf("report = %+v", f)
	}
}

func TestEmitUnknownScenario(t *testing.T) {
	cfg := writeConfig(t, "")
	_, errOut, code := run(t, "emit", "--config", cfg, "--scenario", "missing")
	if code != 1 || !strings.Contains(errOut, `unknown scenario "missing"`) {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
}

func TestExecuteReportsInternalErrors(t *testing.T) {
	color.NoColor = true
	root := &cobra.Command{
		Use:           "broken",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return &ice.Error{Code: ice.NonConstant, Message: "index must be constant"}
		},
	}
	var stderr bytes.Buffer
	if code := execute(root, nil, &stderr); code != exitInternalError {
		t.Fatalf("exit %d, want %d", code, exitInternalError)
	}
	if got := stderr.String(); !strings.Contains(got, "internal compiler error ICE1003: index must be constant") {
		t.Fatalf("stderr = %q", got)
	}
}

func TestScenariosList(t *testing.T) {
	out, _, code := run(t, "scenarios")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "record-roundtrip") || !strings.Contains(out, "callable-capture") {
		t.Fatalf("listing = %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, code := run(t, "version", "--format", "json", "--full")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "qir" || payload.GitCommit == "" {
		t.Fatalf("payload = %+v", payload)
	}
	if _, _, code := run(t, "version", "--format", "yaml"); code != 1 {
		t.Fatalf("unsupported format must fail")
	}
}

func TestBadColorMode(t *testing.T) {
	_, errOut, code := run(t, "--color", "sometimes", "scenarios")
	if code != 1 || !strings.Contains(errOut, "--color") {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
}

func TestEmitTimingsAndProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "")
	memPath := filepath.Join(dir, "mem.pprof")
	_, errOut, code := run(t, "emit", "--config", cfg, "--scenario", "inline-aggregates",
		"-o", filepath.Join(dir, "out.ll"), "--timings", "--memprofile", memPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"timings:", "config", "lower", "1 scenarios", "write", "total"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("timings lack %q:\n%s", want, errOut)
		}
	}
	if _, err := os.Stat(memPath); err != nil {
		t.Fatalf("heap profile: %v", err)
	}
}

func TestFailedEmitDumpsRing(t *testing.T) {
	cfg := writeConfig(t, "[trace]\nlevel = \"error\"\nmode = \"ring\"\n")
	_, errOut, code := run(t, "emit", "--config", cfg, "--scenario", "missing")
	if code != 1 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(errOut, "--- trace ---") || !strings.Contains(errOut, "begin emit") {
		t.Fatalf("ring not dumped:\n%s", errOut)
	}

	cfg = writeConfig(t, "")
	if _, errOut, _ := run(t, "emit", "--config", cfg, "--scenario", "missing"); strings.Contains(errOut, "--- trace ---") {
		t.Fatalf("nothing to dump without a ring:\n%s", errOut)
	}
}
