package script

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Store is the read-only catalogue of conversations per locale.
type Store struct {
	byLocale Collection
}

// NewStore builds a store from c. Locale keys are normalized and the
// conversation slices are copied, so c can be reused by the caller.
func NewStore(c Collection) *Store {
	s := &Store{byLocale: make(Collection, len(c))}
	for locale, convs := range c {
		s.byLocale[NormalizeLocale(locale)] = append([]Conversation(nil), convs...)
	}
	return s
}

// LoadBuiltin parses the scripts compiled into the binary.
func LoadBuiltin() (*Store, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("could not read builtin scripts: %w", err)
	}

	c := make(Collection)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := builtinFS.ReadFile(path.Join("builtin", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not read builtin script %s: %w", entry.Name(), err)
		}
		locale, convs, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin script %s: %w", entry.Name(), err)
		}
		c[locale] = convs
	}
	return NewStore(c), nil
}

// LoadFile parses a user script file and returns a store equal to base with
// that file's locale replaced. base may be nil.
func LoadFile(filePath string, base *Store) (*Store, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}
	locale, convs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return base.With(locale, convs), nil
}

// With returns a copy of the store with locale's conversations replaced.
func (s *Store) With(locale string, convs []Conversation) *Store {
	c := make(Collection)
	if s != nil {
		for l, existing := range s.byLocale {
			c[l] = existing
		}
	}
	c[locale] = convs
	return NewStore(c)
}

// ConversationsFor returns the ordered conversations for locale. An unknown
// locale yields an empty slice.
func (s *Store) ConversationsFor(locale string) []Conversation {
	resolved, ok := s.Resolve(locale)
	if !ok {
		return []Conversation{}
	}
	return append([]Conversation(nil), s.byLocale[resolved]...)
}

// Resolve maps a requested locale to one present in the store, falling back
// from a regional locale ("es-mx") to its base language ("es").
func (s *Store) Resolve(locale string) (string, bool) {
	if s == nil {
		return "", false
	}
	l := NormalizeLocale(locale)
	if _, ok := s.byLocale[l]; ok {
		return l, true
	}
	if i := strings.IndexByte(l, '-'); i > 0 {
		if _, ok := s.byLocale[l[:i]]; ok {
			return l[:i], true
		}
	}
	return "", false
}

// Supported reports whether locale resolves to any conversations.
func (s *Store) Supported(locale string) bool {
	_, ok := s.Resolve(locale)
	return ok
}

// Locales returns the stored locales in sorted order.
func (s *Store) Locales() []string {
	if s == nil {
		return nil
	}
	locales := make([]string, 0, len(s.byLocale))
	for l := range s.byLocale {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// NormalizeLocale lowercases a locale tag and uses '-' as the separator.
func NormalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}
