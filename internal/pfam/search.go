package pfam

import (
	"sort"
	"strings"
)

// Entries returns every catalog entry ordered by accession.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Accession < out[j].Accession })
	return out
}

// Search matches query tokens case-insensitively against the accession,
// clan, name and function of every entry. All tokens must match. Results
// are ordered by accession; limit <= 0 returns them all.
func (c *Catalog) Search(query string, limit int) []Entry {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var out []Entry
	for _, e := range c.Entries() {
		blob := strings.ToLower(strings.Join([]string{e.Accession, e.Clan, e.ClanName, e.Name, e.Function}, "\n"))
		ok := true
		for _, tok := range tokens {
			if !strings.Contains(blob, tok) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func tokenize(q string) []string {
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(p))
	}
	return out
}
