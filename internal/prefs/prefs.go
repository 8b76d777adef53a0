// Package prefs handles hitch user preferences persistence.
// Preferences are stored in ~/.config/hitch/prefs.toml: theme, the panel
// geometry blob, and the one-time warning flags. Writes happen on every
// committing mutation and are not transactional; a torn write loses UI
// preferences only.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Panel is the persisted panel geometry and open state, reloaded at session
// start. It never expires. JobID identifies the job to reopen when Open is
// set; drafts are session-scoped and leave it empty.
type Panel struct {
	Open   bool   `toml:"open"`
	JobID  string `toml:"job_id"`
	Docked bool   `toml:"docked"`
	X      int  `toml:"x"`
	Y      int  `toml:"y"`
	W      int  `toml:"w"`
	H      int  `toml:"h"`
}

// Prefs holds user preferences for hitch.
type Prefs struct {
	Theme string `toml:"theme"`
	Panel Panel  `toml:"panel"`

	// SeenWarnings holds namespaced warning keys built by WarningKey, one
	// per warning kind per job (or draft token until promotion).
	SeenWarnings []string `toml:"seen_warnings"`
}

const (
	defaultPrefsPath = "~/.config/hitch/prefs.toml"
	defaultTheme     = "Nightfox"
)

// WarningKind names a one-time date warning.
type WarningKind string

const (
	WarnPastStart WarningKind = "past-start"
	WarnFarFuture WarningKind = "far-future"
	WarnLongSpan  WarningKind = "long-span"
)

// WarningKey builds the namespaced storage key for a warning flag. jobKey is
// a server job ID or a session draft token.
func WarningKey(kind WarningKind, jobKey string) string {
	return "warn/" + string(kind) + "/" + jobKey
}

// SeenWarning reports whether the warning was already shown for the job.
func (p *Prefs) SeenWarning(kind WarningKind, jobKey string) bool {
	key := WarningKey(kind, jobKey)
	for _, existing := range p.SeenWarnings {
		if existing == key {
			return true
		}
	}
	return false
}

// MarkWarningSeen records the warning flag. Idempotent.
func (p *Prefs) MarkWarningSeen(kind WarningKind, jobKey string) {
	if p.SeenWarning(kind, jobKey) {
		return
	}
	p.SeenWarnings = append(p.SeenWarnings, WarningKey(kind, jobKey))
}

// MigrateWarnings rewrites flags recorded under a draft token to the real
// job ID once the first save assigns one. Reports whether any flag moved.
func (p *Prefs) MigrateWarnings(oldJobKey, newJobKey string) bool {
	oldSuffix := "/" + oldJobKey
	changed := false
	for i, key := range p.SeenWarnings {
		if strings.HasSuffix(key, oldSuffix) && strings.HasPrefix(key, "warn/") {
			p.SeenWarnings[i] = strings.TrimSuffix(key, oldSuffix) + "/" + newJobKey
			changed = true
		}
	}
	return changed
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), nil
	}

	prefs := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func defaults() Prefs {
	return Prefs{
		Theme: defaultTheme,
		Panel: Panel{Docked: true, W: 52, H: 18},
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
