package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plinth/internal/project"
)

const testListing = `
[[module]]
name = "app/types"
code = "pub type Datum { Datum }\n"
  [[module.type]]
  name = "Datum"
  public = true
  constructors = ["Datum"]

[[module]]
name = "app/util"
code = "use app/types\npub fn check(d: Datum) -> Bool { True }\n"
imports = ["app/types"]
  [[module.function]]
  name = "check"
  public = true
  params = ["d:Datum"]
  returns = "Bool"

[[module]]
name = "validators/vault"
kind = "validator"
code = "use app/util\nvalidator spend {}\n"
imports = ["app/util"]
  [[module.validator]]
  name = "spend"
`

const cyclicListing = `
[[module]]
name = "a"
code = "use b\n"
imports = ["b"]

[[module]]
name = "b"
code = "use a\n"
imports = ["a"]
`

func writeProject(t *testing.T, listing string) string {
	t.Helper()
	dir := t.TempDir()
	manifest := "[package]\nname = \"acme/vault\"\n"
	if err := os.WriteFile(filepath.Join(dir, project.ManifestFile), []byte(manifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	path := filepath.Join(dir, "modules.toml")
	if err := os.WriteFile(path, []byte(listing), 0o600); err != nil {
		t.Fatalf("write listing: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	base := []string{"--color", "off", "--ui", "off", "--no-cache", "--jobs", "1"}
	rootCmd.SetArgs(append(append([]string{args[0]}, base...), args[1:]...))
	err := rootCmd.Execute()
	runTraceCleanup()
	return stdout.String(), stderr.String(), err
}

func TestOrderCommand(t *testing.T) {
	listing := writeProject(t, testListing)
	out, _, err := execute(t, "order", "--format", "pretty", "--waves=false", listing)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if out != "app/types\napp/util\nvalidators/vault\n" {
		t.Fatalf("order output = %q", out)
	}

	out, _, err = execute(t, "order", "--format", "json", "--waves", listing)
	if err != nil {
		t.Fatalf("order --waves: %v", err)
	}
	var payload orderPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(payload.Waves) != 3 || payload.Waves[2][0] != "validators/vault" {
		t.Fatalf("waves = %v", payload.Waves)
	}
}

func TestOrderCommandReportsCycle(t *testing.T) {
	listing := writeProject(t, cyclicListing)
	_, stderr, err := execute(t, "order", "--format", "pretty", "--waves=false", listing)
	if !project.IsImportCycle(err) {
		t.Fatalf("err = %v, want import cycle", err)
	}
	for _, want := range []string{"PRJ5004", "┌", "│    a", "│    b"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestValidatorsCommand(t *testing.T) {
	listing := writeProject(t, testListing)
	out, _, err := execute(t, "validators", "--format", "json", listing)
	if err != nil {
		t.Fatalf("validators: %v", err)
	}
	var list []validatorJSON
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(list) != 1 || list[0].Package != "acme/vault" || list[0].Module != "validators/vault" || list[0].Handler != "spend" {
		t.Fatalf("validators = %+v", list)
	}
}

func TestSymbolsCommand(t *testing.T) {
	listing := writeProject(t, testListing)
	snapshot := filepath.Join(t.TempDir(), "ctx.mp")
	out, _, err := execute(t, "symbols", "--format", "json", "--verbose-traces", "--snapshot", snapshot, listing)
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	var payload symbolsPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if payload.TraceLevel != "verbose" {
		t.Fatalf("trace level = %q", payload.TraceLevel)
	}
	found := false
	for _, fn := range payload.Functions {
		if fn.Key == "app/util.check" {
			found = fn.Location == "app/util:2:5"
		}
	}
	if !found {
		t.Fatalf("app/util.check missing or misplaced: %+v", payload.Functions)
	}
	if info, err := os.Stat(snapshot); err != nil || info.Size() == 0 {
		t.Fatalf("snapshot not written: %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	listing := writeProject(t, testListing)
	out, _, err := execute(t, "check", "--format", "pretty", listing)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "checked 3 modules") {
		t.Fatalf("check output = %q", out)
	}
}
