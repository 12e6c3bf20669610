package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	// flag variables outlive a single execution
	txTitle, txAmount, txCategory, txDate = "", "", "", ""
	listPage, listCategory = 0, ""
	if err := Execute(); err != nil {
		t.Fatalf("ledger %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCommands_SQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "ledger.db"))
	t.Setenv("EVENTS_BACKEND", "none")
	t.Setenv("LOG_LEVEL", "error")
	env := filepath.Join(dir, "empty.env")
	writeFile(t, env, "")

	if out := run(t, "--env", env, "add", "--title", "Salary", "--amount", "1500", "--type", "income", "--date", "2024-04-07"); !strings.Contains(out, "Added #1") {
		t.Fatalf("add output: %q", out)
	}
	run(t, "--env", env, "add", "--title", "Rent", "--amount", "$1,200", "--type", "outcome", "--date", "2024-04-07")

	out := run(t, "--env", env, "totals")
	for _, want := range []string{"Income:       $1,500.00", "Outcome:      -$1,200.00", "Balance:      $300.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("totals missing %q in %q", want, out)
		}
	}

	out = run(t, "--env", env, "list")
	if !strings.Contains(out, "07 April") || !strings.Contains(out, "Page 1 of 1") {
		t.Errorf("unexpected list output: %q", out)
	}

	out = run(t, "--env", env, "edit", "2", "--amount", "1000")
	if !strings.Contains(out, "-$1,000.00") {
		t.Errorf("unexpected edit output: %q", out)
	}

	out = run(t, "--env", env, "share", "2")
	if !strings.Contains(out, "projectapp://input?amount=1000.00&title=Rent&type=outcome") {
		t.Errorf("unexpected share output: %q", out)
	}

	run(t, "--env", env, "delete", "2")
	run(t, "--env", env, "delete", "2")
	out = run(t, "--env", env, "totals")
	if !strings.Contains(out, "Balance:      $1,500.00") {
		t.Errorf("unexpected totals after delete: %q", out)
	}
}

func TestParseID(t *testing.T) {
	for _, s := range []string{"0", "-1", "abc", ""} {
		if _, err := parseID(s); err == nil {
			t.Errorf("parseID(%q) should fail", s)
		}
	}
	if id, err := parseID("12"); err != nil || id != 12 {
		t.Errorf("parseID(12) = %d, %v", id, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
