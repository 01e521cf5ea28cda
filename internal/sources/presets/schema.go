package presets

import (
	"encoding/json"

	"github.com/MrSnakeDoc/webring/internal/widget"
)

// File is the top-level structure of presets.yaml.
type File struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Preset is a named set of widget attributes. Values keep their attribute
// form so they go through the same resolution as inline attributes.
type Preset struct {
	Categories      []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Color           string   `yaml:"color,omitempty" json:"color,omitempty"`
	BackgroundColor string   `yaml:"background-color,omitempty" json:"background-color,omitempty"`
	Source          string   `yaml:"source,omitempty" json:"source,omitempty"`
	MaxLinks        string   `yaml:"max-links,omitempty" json:"max-links,omitempty"`
	Border          string   `yaml:"border,omitempty" json:"border,omitempty"`
}

// Attributes returns the preset as data-* attributes. Unset fields are left
// out so defaults apply.
func (p Preset) Attributes() widget.MapAttributes {
	attrs := widget.MapAttributes{}
	if len(p.Categories) > 0 {
		raw, err := json.Marshal(p.Categories)
		if err == nil {
			attrs[widget.AttrCategories] = string(raw)
		}
	}
	set := func(name, v string) {
		if v != "" {
			attrs[name] = v
		}
	}
	set(widget.AttrColor, p.Color)
	set(widget.AttrBackgroundColor, p.BackgroundColor)
	set(widget.AttrSource, p.Source)
	set(widget.AttrMaxLinks, p.MaxLinks)
	set(widget.AttrBorder, p.Border)
	return attrs
}
