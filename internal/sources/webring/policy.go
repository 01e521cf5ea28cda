package webring

import (
	"errors"
	"net/url"
	"strings"
)

// ErrSourceNotAllowed is returned when a data source is outside the policy.
var ErrSourceNotAllowed = errors.New("data source not allowed")

// SourcePolicy decides which data sources a Client may read.
//
// Operator sources (the configured default and preset sources) are trusted as
// given, file:// included. Any other base must be http(s) and sit under one
// of the allowed prefixes.
type SourcePolicy struct {
	allowed  []string
	operator func() []string
}

// NewSourcePolicy builds a policy. operator may be nil.
func NewSourcePolicy(allowed []string, operator func() []string) *SourcePolicy {
	p := &SourcePolicy{operator: operator}
	for _, a := range allowed {
		a = withSlash(strings.TrimSpace(a))
		if isHTTP(a) {
			p.allowed = append(p.allowed, a)
		}
	}
	return p
}

// Allows reports whether base may be read. A nil policy allows everything.
func (p *SourcePolicy) Allows(base string) bool {
	if p == nil {
		return true
	}
	if p.operator != nil {
		for _, s := range p.operator() {
			if s != "" && withSlash(s) == base {
				return true
			}
		}
	}

	u, err := url.Parse(base)
	if err != nil || !isHTTP(base) || u.Host == "" || u.User != nil {
		return false
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return false
		}
	}

	for _, a := range p.allowed {
		if strings.HasPrefix(base, a) {
			return true
		}
	}
	return false
}

// allowsURL checks the directory holding a document URL, used for redirects.
func (p *SourcePolicy) allowsURL(u *url.URL) bool {
	dir := *u
	dir.Path = dir.Path[:strings.LastIndex(dir.Path, "/")+1]
	dir.RawPath = ""
	dir.RawQuery = ""
	dir.Fragment = ""
	return p.Allows(dir.String())
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func withSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
