package crawler

import "strings"

// Blocklist excludes domains from being scheduled for fetching. Entries are
// exact hosts ("tracker.example.com") or suffix wildcards ("*.example.com",
// ".example.com"), matched against normalized Domains. Blocking affects
// scheduling only: edges into a blocked domain are still recorded.
type Blocklist struct {
	exact    map[string]struct{}
	suffixes []string
}

// NewBlocklist builds a Blocklist from configured patterns. Returns nil when
// no usable pattern remains; a nil Blocklist blocks nothing.
func NewBlocklist(patterns []string) *Blocklist {
	b := &Blocklist{
		exact: make(map[string]struct{}),
	}
	for _, raw := range patterns {
		value := strings.TrimSpace(strings.ToLower(raw))
		if value == "" {
			continue
		}
		switch {
		case strings.HasPrefix(value, "*."):
			b.addSuffix(strings.TrimPrefix(value, "*."))
		case strings.HasPrefix(value, "."):
			b.addSuffix(strings.TrimPrefix(value, "."))
		default:
			b.exact[value] = struct{}{}
		}
	}
	if len(b.exact) == 0 && len(b.suffixes) == 0 {
		return nil
	}
	return b
}

func (b *Blocklist) addSuffix(suffix string) {
	if suffix == "" {
		return
	}
	for _, existing := range b.suffixes {
		if existing == suffix {
			return
		}
	}
	b.suffixes = append(b.suffixes, suffix)
}

// Blocked reports whether d matches an exact entry or a suffix wildcard. A
// suffix matches the bare domain too: "*.ru" blocks both "example.ru" and
// "ru". Exact entries never match subdomains.
func (b *Blocklist) Blocked(d Domain) bool {
	if b == nil {
		return false
	}
	host := strings.ToLower(string(d))
	if host == "" {
		return false
	}
	if _, ok := b.exact[host]; ok {
		return true
	}
	for _, suffix := range b.suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
