package widget

import (
	"encoding/json"
	"strings"

	"github.com/MrSnakeDoc/webring/internal/logger"
)

// Attribute names read from the widget's inclusion tag.
const (
	AttrCategories      = "data-categories"
	AttrColor           = "data-color"
	AttrBackgroundColor = "data-background-color"
	AttrSource          = "data-source"
	AttrMaxLinks        = "data-max-links"
	AttrBorder          = "data-border"
)

// Defaults applied when an attribute is absent or unusable.
const (
	DefaultColor           = "#000000"
	DefaultBackgroundColor = "#ffffff"
	DefaultDataSource      = "https://saturn91.github.io/saturn91-webring-data/public/"
	DefaultMaxLinks        = 4
	DefaultBorder          = ""
)

// Attributes is a read-only view over declarative attributes.
type Attributes interface {
	Lookup(name string) (string, bool)
}

// MapAttributes is an Attributes backed by a plain map.
type MapAttributes map[string]string

func (m MapAttributes) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// With returns a copy of m with every attribute of top applied over it.
func (m MapAttributes) With(top MapAttributes) MapAttributes {
	out := make(MapAttributes, len(m)+len(top))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// Configuration is the resolved, immutable widget configuration.
type Configuration struct {
	Categories      []string `json:"categories"`
	Color           string   `json:"color"`
	BackgroundColor string   `json:"backgroundColor"`
	DataSource      string   `json:"dataSource"`
	MaxLinks        int      `json:"maxLinks"`
	Border          string   `json:"border"`
}

// DefaultConfiguration returns the configuration used when no attribute is set.
func DefaultConfiguration() Configuration {
	return Configuration{
		Categories:      []string{},
		Color:           DefaultColor,
		BackgroundColor: DefaultBackgroundColor,
		DataSource:      DefaultDataSource,
		MaxLinks:        DefaultMaxLinks,
		Border:          DefaultBorder,
	}
}

// Resolve builds a Configuration from attrs. Malformed values never fail;
// they fall back to defaults, with a warning for data-max-links.
func Resolve(attrs Attributes, log logger.Logger) Configuration {
	return ResolveWithDefaults(attrs, DefaultConfiguration(), log)
}

// ResolveWithDefaults is Resolve with caller supplied defaults, used by the
// server to apply its configured default data source.
func ResolveWithDefaults(attrs Attributes, defaults Configuration, log logger.Logger) Configuration {
	cfg := defaults
	cfg.Categories = append([]string{}, defaults.Categories...)
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = DefaultMaxLinks
	}

	if attrs == nil {
		attrs = MapAttributes{}
	}

	if raw, ok := lookup(attrs, AttrCategories); ok {
		cfg.Categories = parseCategories(raw)
	}
	if raw, ok := lookup(attrs, AttrColor); ok {
		cfg.Color = raw
	}
	if raw, ok := lookup(attrs, AttrBackgroundColor); ok {
		cfg.BackgroundColor = raw
	}
	if raw, ok := lookup(attrs, AttrSource); ok {
		cfg.DataSource = ensureTrailingSlash(raw)
	}
	if raw, ok := lookup(attrs, AttrMaxLinks); ok {
		if n, ok := parseLeadingInt(raw); ok && n > 0 {
			cfg.MaxLinks = n
		} else {
			log.Warn("data-max-links must be a positive number > 0, using default",
				logger.String("value", raw),
				logger.Int("default", cfg.MaxLinks))
		}
	}
	if raw, ok := lookup(attrs, AttrBorder); ok {
		cfg.Border = raw
	}

	log.Info("widget config",
		logger.Strings("categories", cfg.Categories),
		logger.String("color", cfg.Color),
		logger.String("background_color", cfg.BackgroundColor),
		logger.String("data_source", cfg.DataSource),
		logger.Int("max_links", cfg.MaxLinks),
		logger.String("border", cfg.Border))

	return cfg
}

// lookup treats empty attribute values as absent.
func lookup(attrs Attributes, name string) (string, bool) {
	v, ok := attrs.Lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// parseCategories accepts a JSON array of strings and falls back to a comma
// separated list.
func parseCategories(raw string) []string {
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		if parsed == nil {
			return []string{}
		}
		return parsed
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// parseLeadingInt reads an optionally signed run of digits after leading
// whitespace and ignores whatever follows ("12px" -> 12).
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if n > 1<<31 {
			// Saturate instead of overflowing.
			n = 1 << 31
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
