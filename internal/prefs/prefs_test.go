package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if !p.Panel.Docked || p.Panel.W == 0 {
		t.Fatalf("Panel defaults = %#v, want docked with size", p.Panel)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "hitch")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := "theme = \"Slate\"\n\n[panel]\nopen = true\nx = 12\ny = 3\n"
	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if !p.Panel.Open || p.Panel.X != 12 || p.Panel.Y != 3 {
		t.Fatalf("Panel = %#v, want open at 12,3", p.Panel)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "custom.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
}

func TestSave_RoundTripsPanelAndWarnings(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Prefs{Theme: "Slate", Panel: Panel{Open: true, X: 4, Y: 2, W: 60, H: 20}}
	p.MarkWarningSeen(WarnPastStart, "7")
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Slate")
	}
	if loaded.Panel != p.Panel {
		t.Fatalf("Panel = %#v, want %#v", loaded.Panel, p.Panel)
	}
	if !loaded.SeenWarning(WarnPastStart, "7") {
		t.Fatal("warning flag lost in round trip")
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestWarnings_SeenAndIdempotent(t *testing.T) {
	var p Prefs

	if p.SeenWarning(WarnLongSpan, "7") {
		t.Fatal("SeenWarning true before marking")
	}
	p.MarkWarningSeen(WarnLongSpan, "7")
	p.MarkWarningSeen(WarnLongSpan, "7")
	if len(p.SeenWarnings) != 1 {
		t.Fatalf("SeenWarnings = %v, want single entry", p.SeenWarnings)
	}
	if !p.SeenWarning(WarnLongSpan, "7") {
		t.Fatal("SeenWarning false after marking")
	}
	// Other kinds and jobs stay independent.
	if p.SeenWarning(WarnPastStart, "7") || p.SeenWarning(WarnLongSpan, "8") {
		t.Fatal("warning flags bleed across kind or job")
	}
}

func TestWarnings_MigrateDraftKeyToJobID(t *testing.T) {
	var p Prefs
	draft := "draft-abc123"
	p.MarkWarningSeen(WarnPastStart, draft)
	p.MarkWarningSeen(WarnLongSpan, draft)
	p.MarkWarningSeen(WarnLongSpan, "9")

	p.MigrateWarnings(draft, "42")

	if !p.SeenWarning(WarnPastStart, "42") || !p.SeenWarning(WarnLongSpan, "42") {
		t.Fatalf("flags not migrated: %v", p.SeenWarnings)
	}
	if p.SeenWarning(WarnPastStart, draft) {
		t.Fatal("draft-keyed flag survived migration")
	}
	if !p.SeenWarning(WarnLongSpan, "9") {
		t.Fatal("unrelated flag touched by migration")
	}
}
