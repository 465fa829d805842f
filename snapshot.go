package scout

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MatchSnapshot resolves loc and compares the collection dump against a
// golden file stored in testdata/<sanitized-test-name>/<sanitized-name>.txt.
//
// Set SCOUT_UPDATE=1 to create or update golden files.
func (p *Page) MatchSnapshot(loc Locator, name string) {
	p.t.Helper()
	p.Elements(loc).MatchSnapshot(p.t, name)
}

// MatchSnapshot on Collection allows snapshotting a previously resolved
// collection.
func (c Collection) MatchSnapshot(t testing.TB, name string) {
	t.Helper()

	dir := snapshotDir(t)
	path := filepath.Join(dir, sanitizeName(name)+".txt")
	content := normalizeForSnapshot(c.String())

	if shouldUpdate() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("scout: snapshot: failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("scout: snapshot: failed to write golden file: %v", err)
		}
		return
	}

	golden, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("scout: snapshot: golden file not found: %s\nRun with SCOUT_UPDATE=1 to create it.\n\nActual collection:\n%s", path, content)
		}
		t.Fatalf("scout: snapshot: failed to read golden file: %v", err)
	}

	if string(golden) != content {
		t.Fatalf("scout: snapshot: mismatch for %q\nGolden file: %s\nRun with SCOUT_UPDATE=1 to update.\n\n--- golden ---\n%s\n--- actual ---\n%s",
			name, path, string(golden), content)
	}
}

// snapshotDir returns the directory for golden files for the current test.
// Uses testdata/<sanitized-test-name>-<hash>/ where hash ensures uniqueness.
func snapshotDir(t testing.TB) string {
	t.Helper()

	fullName := t.Name()
	h := sha256.Sum256([]byte(fullName))
	return filepath.Join("testdata", sanitizeName(fullName)+"-"+hex.EncodeToString(h[:4]))
}

// normalizeForSnapshot trims trailing spaces and blank lines and ends the
// content with a single newline.
func normalizeForSnapshot(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n"
}

// shouldUpdate returns true if SCOUT_UPDATE is set to a truthy value.
func shouldUpdate() bool {
	v := os.Getenv("SCOUT_UPDATE")
	return v == "1" || v == "true" || v == "yes"
}

// sanitizeName replaces characters that are not filesystem-safe.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
