package urlkeys

import (
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/strutils"
)

const (
	VariantPermalink = "permalink"
	VariantShortlink = "shortlink"
)

// KeySet holds the scheme-stripped, search-friendly URL variants for a
// content item, in derivation order.
type KeySet struct {
	labels   []string
	variants map[string]string
}

func (k KeySet) Empty() bool {
	return len(k.labels) == 0
}

func (k KeySet) Get(label string) (string, bool) {
	variant, ok := k.variants[label]
	return variant, ok
}

func (k KeySet) Labels() []string {
	return k.labels
}

// Patterns returns the variant values in derivation order, for use as search
// patterns against tenant stores.
func (k KeySet) Patterns() []string {
	patterns := make([]string, 0, len(k.labels))
	for _, label := range k.labels {
		patterns = append(patterns, k.variants[label])
	}
	return patterns
}

func (k *KeySet) add(label, variant string) {
	if variant == "" {
		return
	}
	if k.variants == nil {
		k.variants = make(map[string]string, 2)
	}
	if _, exists := k.variants[label]; !exists {
		k.labels = append(k.labels, label)
	}
	k.variants[label] = variant
}

// NewKeySet builds a KeySet from label/variant pairs, mostly useful for
// transform hooks and tests. Empty variants are skipped.
func NewKeySet(pairs ...[2]string) KeySet {
	var keySet KeySet
	for _, pair := range pairs {
		keySet.add(pair[0], pair[1])
	}
	return keySet
}

// TransformFunc lets external logic add, remove, or transform variants before
// they are used.
type TransformFunc func(keySet KeySet, item domain.ContentItem) KeySet

type Deriver struct {
	transform TransformFunc
}

func NewDeriver(transform TransformFunc) *Deriver {
	return &Deriver{transform: transform}
}

// Derive produces the searchable URL variants for item: its permalink and
// shortlink with the scheme stripped. Absent URLs are omitted. An empty
// KeySet means there is nothing to search for, it is not an error.
func (d *Deriver) Derive(item domain.ContentItem) KeySet {
	var keySet KeySet

	keySet.add(VariantPermalink, strutils.StripScheme(item.Permalink))
	keySet.add(VariantShortlink, strutils.StripScheme(item.Shortlink))

	if d.transform != nil {
		return d.transform(keySet, item)
	}

	return keySet
}
