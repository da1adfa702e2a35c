package ordering

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"photowall/internal/services"
)

// Options configures name collation.
type Options struct {
	Locale     string
	IgnoreCase bool
}

// Collator compares display names with locale rules and numeric awareness,
// so "img2" sorts before "img10".
type Collator struct {
	mu  sync.Mutex
	col *collate.Collator
	tag language.Tag
}

// NewCollator builds a collator for the BCP 47 locale in opts. An empty
// locale selects the root ("und") collation.
func NewCollator(opts Options) (*Collator, error) {
	locale := strings.TrimSpace(opts.Locale)
	if locale == "" {
		locale = "und"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ordering", "collator", fmt.Sprintf("sort.locale %q", opts.Locale), err)
	}
	collateOpts := []collate.Option{collate.Numeric}
	if opts.IgnoreCase {
		collateOpts = append(collateOpts, collate.IgnoreCase)
	}
	return &Collator{col: collate.New(tag, collateOpts...), tag: tag}, nil
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col.CompareString(a, b)
}

// Locale returns the parsed locale tag.
func (c *Collator) Locale() string {
	return c.tag.String()
}
