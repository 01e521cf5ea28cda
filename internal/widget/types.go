package widget

// RemoteIndex is the top-level index.json of a data source.
// Categories keep the order of the JSON array.
type RemoteIndex struct {
	Categories []string `json:"categories"`
}

// RemoteLink is one entry of a <category>.json file.
type RemoteLink struct {
	Owner string `json:"owner"`
	URL   string `json:"url"`
}

// CategoryFile is the body of a <category>.json file.
type CategoryFile struct {
	Links []RemoteLink `json:"links"`
}

// DisplayLink is the render-ready form of a RemoteLink.
type DisplayLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ToDisplayLinks renames owner to title for every entry.
func (f CategoryFile) ToDisplayLinks() []DisplayLink {
	links := make([]DisplayLink, 0, len(f.Links))
	for _, l := range f.Links {
		links = append(links, DisplayLink{Title: l.Owner, URL: l.URL})
	}
	return links
}

// CategoryDisplayMap maps category names to sampled links while keeping the
// order in which categories were stored.
type CategoryDisplayMap struct {
	order []string
	links map[string][]DisplayLink
}

// NewCategoryDisplayMap returns an empty map.
func NewCategoryDisplayMap() CategoryDisplayMap {
	return CategoryDisplayMap{links: make(map[string][]DisplayLink)}
}

// Set stores links under category. Storing the same category twice keeps its
// first position and replaces the links.
func (m *CategoryDisplayMap) Set(category string, links []DisplayLink) {
	if m.links == nil {
		m.links = make(map[string][]DisplayLink)
	}
	if _, ok := m.links[category]; !ok {
		m.order = append(m.order, category)
	}
	if links == nil {
		links = []DisplayLink{}
	}
	m.links[category] = links
}

// Get returns the links stored for category.
func (m CategoryDisplayMap) Get(category string) ([]DisplayLink, bool) {
	links, ok := m.links[category]
	return links, ok
}

// Categories returns category names in insertion order.
func (m CategoryDisplayMap) Categories() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// HasAnyLinks reports whether at least one category holds a link.
func (m CategoryDisplayMap) HasAnyLinks() bool {
	for _, links := range m.links {
		if len(links) > 0 {
			return true
		}
	}
	return false
}

// RenderState is the outcome of a fetch: either the error state or a map
// with at least one non-empty category.
type RenderState struct {
	Failed     bool
	Categories CategoryDisplayMap
}

// ErrorState returns the degraded state shown when nothing could be loaded.
func ErrorState() RenderState {
	return RenderState{Failed: true, Categories: NewCategoryDisplayMap()}
}

// OkState wraps a populated display map.
func OkState(m CategoryDisplayMap) RenderState {
	return RenderState{Categories: m}
}
