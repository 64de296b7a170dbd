package catalog

import (
	"sort"
	"strings"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
)

// Catalog is the read-only component reference table.
type Catalog struct {
	entries map[string]types.ComponentDescriptor
	keys    []string // longest first, then lexical
}

func New(entries map[string]types.ComponentDescriptor) *Catalog {
	c := &Catalog{
		entries: make(map[string]types.ComponentDescriptor, len(entries)),
		keys:    make([]string, 0, len(entries)),
	}
	for k, v := range entries {
		c.entries[k] = v
		c.keys = append(c.keys, k)
	}
	sort.Slice(c.keys, func(i, j int) bool {
		if len(c.keys[i]) != len(c.keys[j]) {
			return len(c.keys[i]) > len(c.keys[j])
		}
		return c.keys[i] < c.keys[j]
	})
	return c
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func (c *Catalog) Get(key string) (types.ComponentDescriptor, bool) {
	d, ok := c.entries[key]
	return d, ok
}

// Keys returns the component keys in lexical order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	sort.Strings(keys)
	return keys
}

// All returns a copy of every entry.
func (c *Catalog) All() map[string]types.ComponentDescriptor {
	all := make(map[string]types.ComponentDescriptor, len(c.entries))
	for k, v := range c.entries {
		all[k] = v
	}
	return all
}

// Match finds the component an attribute text refers to. Plain texts must
// start with the key; Siemens-style codes ("=Z01+...") match when the key
// appears anywhere once '=' and '+' are removed. The longest key wins.
func (c *Catalog) Match(text string) (string, types.ComponentDescriptor, bool) {
	siemens := IsSiemensCode(text)
	cleaned := strings.NewReplacer("=", "", "+", "").Replace(text)

	for _, key := range c.keys {
		if strings.HasPrefix(text, key) || (siemens && strings.Contains(cleaned, key)) {
			return key, c.entries[key], true
		}
	}
	return "", types.ComponentDescriptor{}, false
}

func IsSiemensCode(text string) bool {
	return strings.HasPrefix(text, "=Z")
}
