package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestTranslate_Entries(t *testing.T) {
	c, err := NewFromEntries("es", "facets", map[string]map[string]string{
		"es": {"facets.lang": "Idioma", "facets.discount": "100% rebajado"},
		"en": {"facets.lang": "Language"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct{ key, want string }{
		{"lang", "Idioma"},
		{"discount", "100% rebajado"},
		{"status", "status"},
	}
	for _, tt := range tests {
		if got := c.Translate(tt.key); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestTranslate_NoCatalog(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Translate("lang"); got != "lang" {
		t.Errorf("Translate(lang) = %q, want identity", got)
	}
}

func TestTranslate_Humanize(t *testing.T) {
	c, err := New(Config{Humanize: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Translate("pub_year"); got != "Pub Year" {
		t.Errorf("Translate(pub_year) = %q", got)
	}
}

func TestNew_InvalidLanguage(t *testing.T) {
	if _, err := New(Config{Language: "!!"}); err == nil {
		t.Error("expected error")
	}
}

func TestReload_NestedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.yaml")
	writeFile(t, path, "en:\n  facets:\n    lang: Language\n    state: State\n")

	c, err := New(Config{Path: path, Namespace: "facets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Translate("state"); got != "State" {
		t.Errorf("Translate(state) = %q", got)
	}

	writeFile(t, path, "en:\n  facets:\n    state: Status\n")
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := c.Translate("state"); got != "Status" {
		t.Errorf("after reload Translate(state) = %q", got)
	}
	if got := c.Translate("lang"); got != "lang" {
		t.Errorf("removed key Translate(lang) = %q, want identity", got)
	}
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.yaml")
	writeFile(t, path, "en:\n  facets:\n    lang: Language\n")
	c, err := New(Config{Path: path, Namespace: "facets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeFile(t, path, "en: [unclosed")
	if err := c.Reload(); err == nil {
		t.Fatal("expected parse error")
	}
	if got := c.Translate("lang"); got != "Language" {
		t.Errorf("Translate(lang) = %q, previous catalog must stay", got)
	}
}

func TestNew_MissingFile(t *testing.T) {
	if _, err := New(Config{Path: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Error("expected error")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.yaml")
	writeFile(t, path, "en:\n  facets:\n    lang: Language\n")
	c, err := New(Config{Path: path, Namespace: "facets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, path, "en:\n  facets:\n    lang: Lingua\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if c.Translate("lang") == "Lingua" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("Translate(lang) = %q after file change, want Lingua", c.Translate("lang"))
}
