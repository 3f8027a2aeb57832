package router

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"prospect-crm-api/pkg/lambda"
)

// Intent classifies what a request asks of a resource family
type Intent int

const (
	NotFound Intent = iota
	Collection
	ByID
	SubAction
	BySecondaryKey
	Batch
)

// String returns the intent name used in logs
func (i Intent) String() string {
	switch i {
	case Collection:
		return "collection"
	case ByID:
		return "by_id"
	case SubAction:
		return "sub_action"
	case BySecondaryKey:
		return "by_secondary_key"
	case Batch:
		return "batch"
	default:
		return "not_found"
	}
}

// Params holds the values bound to pattern parameters
type Params map[string]string

// Get returns the value of a parameter, or "" when unbound
func (p Params) Get(name string) string {
	return p[name]
}

// Handler serves one matched route
type Handler func(ctx context.Context, req *lambda.Request, params Params) (*lambda.Response, error)

// Route binds a method and a path pattern to a handler.
//
// A pattern is a slash separated list of segments relative to the function
// prefix. A segment is a literal, a parameter (":id"), a wildcard ("*") that
// spans zero or more segments or, in last position only, an optional
// parameter (":chatId?") that falls back to the query parameter of the same
// name. The empty pattern addresses the collection.
type Route struct {
	Method  string
	Pattern string
	Intent  Intent
	Name    string
	Handler Handler
}

type segment struct {
	literal  string
	param    string
	optional bool
	wildcard bool
}

type pattern struct {
	raw      string
	intent   Intent
	segments []segment
	routes   []*Route
}

// Match is the outcome of classifying a request
type Match struct {
	Intent   Intent
	Route    *Route
	Params   Params
	Segments []string
}

// Table is the declarative route table of one resource family
type Table struct {
	prefix   string
	patterns []*pattern
}

// NewTable compiles routes under a path prefix such as "/api/neon/prospectos".
// Routes sharing a pattern must share an intent.
func NewTable(prefix string, routes ...Route) (*Table, error) {
	t := &Table{prefix: strings.TrimRight(prefix, "/")}
	byRaw := make(map[string]*pattern)

	for i := range routes {
		r := &routes[i]
		if r.Handler == nil {
			return nil, fmt.Errorf("route %s %q has no handler", r.Method, r.Pattern)
		}
		r.Method = strings.ToUpper(r.Method)

		raw := strings.Trim(r.Pattern, "/")
		p, ok := byRaw[raw]
		if !ok {
			segments, err := parsePattern(raw)
			if err != nil {
				return nil, err
			}
			p = &pattern{raw: raw, intent: r.Intent, segments: segments}
			byRaw[raw] = p
			t.patterns = append(t.patterns, p)
		}
		if p.intent != r.Intent {
			return nil, fmt.Errorf("pattern %q declared with intents %s and %s", raw, p.intent, r.Intent)
		}
		for _, existing := range p.routes {
			if existing.Method == r.Method {
				return nil, fmt.Errorf("duplicate route %s %q", r.Method, raw)
			}
		}
		p.routes = append(p.routes, r)
	}

	sort.SliceStable(t.patterns, func(i, j int) bool {
		return t.patterns[i].intent > t.patterns[j].intent
	})

	return t, nil
}

func parsePattern(raw string) ([]segment, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, "/")
	segments := make([]segment, 0, len(parts))
	for i, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("pattern %q has an empty segment", raw)
		case part == "*":
			if i > 0 && parts[i-1] == "*" {
				return nil, fmt.Errorf("pattern %q has adjacent wildcards", raw)
			}
			segments = append(segments, segment{wildcard: true})
		case strings.HasPrefix(part, ":"):
			name := strings.TrimPrefix(part, ":")
			optional := strings.HasSuffix(name, "?")
			name = strings.TrimSuffix(name, "?")
			if name == "" {
				return nil, fmt.Errorf("pattern %q has an unnamed parameter", raw)
			}
			if optional && i != len(parts)-1 {
				return nil, fmt.Errorf("pattern %q: optional parameter %q must be last", raw, name)
			}
			segments = append(segments, segment{param: name, optional: optional})
		default:
			segments = append(segments, segment{literal: part})
		}
	}
	return segments, nil
}

// Split normalises a request path into decoded segments relative to prefix.
// The query string is dropped and the prefix is stripped wherever it occurs,
// so paths already rewritten to be relative ("/chat/c1") pass through.
func Split(prefix, path string) []string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if prefix = strings.TrimRight(prefix, "/"); prefix != "" {
		if i := strings.Index(path, prefix); i >= 0 {
			rest := path[i+len(prefix):]
			if rest == "" || rest[0] == '/' {
				path = rest
			}
		}
	}

	var segments []string
	for _, part := range strings.Split(path, "/") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		segments = append(segments, part)
	}
	return segments
}

// Match classifies a request. The first pattern in priority order that fits
// the path decides; a method it does not declare yields NotFound.
func (t *Table) Match(method, path string, query map[string]string) Match {
	segments := Split(t.prefix, path)
	method = strings.ToUpper(method)

	for _, p := range t.patterns {
		params, ok := p.bind(segments, query)
		if !ok {
			continue
		}
		for _, r := range p.routes {
			if r.Method == method {
				return Match{Intent: p.intent, Route: r, Params: params, Segments: segments}
			}
		}
		return Match{Intent: NotFound, Segments: segments}
	}

	return Match{Intent: NotFound, Segments: segments}
}

func (p *pattern) bind(segments []string, query map[string]string) (Params, bool) {
	params := make(Params)
	if !p.bindFrom(0, segments, query, params) {
		return nil, false
	}
	return params, true
}

// bindFrom matches p.segments[i:] against segments. Parameters are written
// only once the rest of the pattern has matched, so a wildcard that
// backtracks leaves no stale bindings behind.
func (p *pattern) bindFrom(i int, segments []string, query map[string]string, params Params) bool {
	if i == len(p.segments) {
		return len(segments) == 0
	}

	seg := p.segments[i]
	switch {
	case seg.wildcard:
		for k := 0; k <= len(segments); k++ {
			if p.bindFrom(i+1, segments[k:], query, params) {
				return true
			}
		}
		return false
	case len(segments) == 0:
		if seg.optional {
			params[seg.param] = query[seg.param]
			return true
		}
		return false
	case seg.param != "":
		if !p.bindFrom(i+1, segments[1:], query, params) {
			return false
		}
		params[seg.param] = segments[0]
		return true
	default:
		return segments[0] == seg.literal && p.bindFrom(i+1, segments[1:], query, params)
	}
}

// Routes lists the compiled routes in match order
func (t *Table) Routes() []Route {
	var routes []Route
	for _, p := range t.patterns {
		for _, r := range p.routes {
			routes = append(routes, *r)
		}
	}
	return routes
}

// Prefix returns the path prefix the table strips
func (t *Table) Prefix() string {
	return t.prefix
}
