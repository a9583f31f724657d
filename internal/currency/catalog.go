package currency

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"fxconv/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed data/currencies.yaml
var catalogYAML []byte

// Catalog is the read-only list of known currencies in display order.
type Catalog struct {
	list   []domain.Currency
	byCode map[string]int
}

func (c *Catalog) All() []domain.Currency {
	return slices.Clone(c.list)
}

func (c *Catalog) Popular() []domain.Currency {
	out := make([]domain.Currency, 0, 16)
	for _, cur := range c.list {
		if cur.Popular {
			out = append(out, cur)
		}
	}
	return out
}

func (c *Catalog) ByCode(code string) (domain.Currency, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return domain.Currency{}, false
	}
	return c.list[i], true
}

// Search matches the keyword against the code and English name ignoring case,
// and against the Chinese name as a plain substring. An empty keyword
// returns everything.
func (c *Catalog) Search(keyword string) []domain.Currency {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return c.All()
	}
	lower := strings.ToLower(keyword)

	var out []domain.Currency
	for _, cur := range c.list {
		if strings.Contains(strings.ToLower(cur.Code), lower) ||
			strings.Contains(cur.Name, keyword) ||
			strings.Contains(strings.ToLower(cur.NameEn), lower) {
			out = append(out, cur)
		}
	}
	return out
}

// Codes returns the set of catalog codes.
func (c *Catalog) Codes() map[string]struct{} {
	set := make(map[string]struct{}, len(c.list))
	for _, cur := range c.list {
		set[cur.Code] = struct{}{}
	}
	return set
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var list []domain.Currency
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode currency catalog: %w", err)
	}
	byCode := make(map[string]int, len(list))
	for i, cur := range list {
		if cur.Code == "" {
			return nil, fmt.Errorf("currency catalog entry %d has no code", i)
		}
		if _, dup := byCode[cur.Code]; dup {
			return nil, fmt.Errorf("currency catalog has duplicate code %s", cur.Code)
		}
		byCode[cur.Code] = i
	}
	return &Catalog{list: list, byCode: byCode}, nil
}

// LoadCatalog decodes the catalog compiled into the binary.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}
