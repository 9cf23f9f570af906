package brands

import (
	"sort"
	"strings"
	"sync"
)

// Lookup maps an account name to the ordered brands that account may see.
// Unknown accounts fall back to the default account. The table can be
// swapped at runtime by Replace, so reads take a lock.
type Lookup struct {
	mu             sync.RWMutex
	byAccount      map[string][]string
	defaultAccount string
}

// NewLookup creates a lookup from an account -> brands table
func NewLookup(byAccount map[string][]string, defaultAccount string) *Lookup {
	l := &Lookup{}
	l.Replace(byAccount, defaultAccount)
	return l
}

// Replace swaps the whole table, e.g. after a config reload
func (l *Lookup) Replace(byAccount map[string][]string, defaultAccount string) {
	table := make(map[string][]string, len(byAccount))
	for account, list := range byAccount {
		table[normalizeAccount(account)] = dedupe(list)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.byAccount = table
	l.defaultAccount = normalizeAccount(defaultAccount)
}

// BrandsFor returns a copy of the brands allowed for account. Account names
// match case-insensitively; viper lower-cases map keys on load.
func (l *Lookup) BrandsFor(account string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list, ok := l.byAccount[normalizeAccount(account)]
	if !ok {
		list = l.byAccount[l.defaultAccount]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Known reports whether account has its own brand list
func (l *Lookup) Known(account string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.byAccount[normalizeAccount(account)]
	return ok
}

// DefaultAccount returns the account used for unknown names
func (l *Lookup) DefaultAccount() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defaultAccount
}

// Accounts returns all configured account names, sorted
func (l *Lookup) Accounts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.byAccount))
	for a := range l.byAccount {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func normalizeAccount(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dedupe drops blanks and repeats while keeping the configured order
func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, b := range list {
		b = strings.TrimSpace(b)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}
