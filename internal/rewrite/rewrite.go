// Package rewrite adapts fetched HTML to the portal's addressing scheme.
//
// Rewriting is targeted pattern substitution over start tags, not HTML
// parsing. All functions are pure.
package rewrite

import (
	"path"
	"regexp"
	"strings"
)

// AnalyticsSnippet is the fixed tag InjectAnalytics inserts.
const AnalyticsSnippet = `<script data-fireportal="analytics">window.fireportal=Object.assign(window.fireportal||{},` +
	`{path:location.pathname,loadedAt:Date.now()});</script>`

// Context describes the document being rewritten.
type Context struct {
	Domain     string // domain as addressed by the client
	SubPath    string // document path inside the content, no leading slash
	DirectHost bool   // links need no domain prefix in direct-host mode
}

var (
	tagRe        = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)(\s[^>]*)>`)
	attrRe       = regexp.MustCompile(`(?i)(\s)(href|src)(\s*=\s*)(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	stylesheetRe = regexp.MustCompile(`(?i)\srel\s*=\s*(?:"[^"]*\bstylesheet\b[^"]*"|'[^']*\bstylesheet\b[^']*'|stylesheet\b)`)
	schemeRe     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	bodyCloseRe  = regexp.MustCompile(`(?i)</body\s*>`)
	htmlCloseRe  = regexp.MustCompile(`(?i)</html\s*>`)
)

// Rewrite applies RewriteLinks and then InjectAnalytics.
func Rewrite(html string, ctx Context) string {
	return InjectAnalytics(RewriteLinks(html, ctx))
}

// RewriteLinks rewrites the href of anchor elements and the src of any
// element so that site-root and document-relative references keep working
// under the portal.
//
// Elements marked rel="stylesheet" and src values ending in .css are left
// alone, as are references with a scheme, fragments and protocol-relative
// URLs.
func RewriteLinks(html string, ctx Context) string {
	return tagRe.ReplaceAllStringFunc(html, func(tag string) string {
		m := tagRe.FindStringSubmatch(tag)
		name, attrs := strings.ToLower(m[1]), m[2]
		if stylesheetRe.MatchString(attrs) {
			return tag
		}
		out := attrRe.ReplaceAllStringFunc(attrs, func(attr string) string {
			return rewriteAttr(name, attr, ctx)
		})
		if out == attrs {
			return tag
		}
		return "<" + m[1] + out + ">"
	})
}

func rewriteAttr(tagName, attr string, ctx Context) string {
	am := attrRe.FindStringSubmatch(attr)
	lead, attrName, eq := am[1], strings.ToLower(am[2]), am[3]
	if attrName == "href" && tagName != "a" {
		return attr
	}

	// Unquoted values are written back unquoted.
	quote := attr[len(lead)+len(am[2])+len(eq):][:1]
	val := am[4]
	switch quote {
	case `'`:
		val = am[5]
	case `"`:
	default:
		quote, val = "", am[6]
	}
	if attrName == "src" && strings.HasSuffix(strings.ToLower(val), ".css") {
		return attr
	}

	nv := rewriteRef(val, ctx)
	if nv == val {
		return attr
	}
	return lead + am[2] + eq + quote + nv + quote
}

// rewriteRef maps one reference to its portal form.
func rewriteRef(ref string, ctx Context) string {
	r := strings.TrimSpace(ref)
	if r == "" || strings.HasPrefix(r, "#") || strings.HasPrefix(r, "//") || schemeRe.MatchString(r) {
		return ref
	}

	prefix := ""
	if !ctx.DirectHost && ctx.Domain != "" {
		prefix = "/" + ctx.Domain
	}
	if strings.HasPrefix(r, "/") {
		return prefix + r
	}

	p, suffix := r, ""
	if i := strings.IndexAny(r, "?#"); i >= 0 {
		p, suffix = r[:i], r[i:]
	}
	if p == "" {
		return ref
	}
	joined := path.Join("/", documentDir(ctx.SubPath), p)
	if strings.HasSuffix(p, "/") && joined != "/" {
		joined += "/"
	}
	return prefix + joined + suffix
}

// documentDir returns the directory relative references resolve against.
// A last segment containing a dot names a file and is dropped; otherwise
// the whole sub-path is the directory.
func documentDir(subPath string) string {
	sub := strings.TrimPrefix(subPath, "/")
	if sub == "" {
		return ""
	}
	i := strings.LastIndex(sub, "/")
	if strings.Contains(sub[i+1:], ".") {
		return sub[:i+1]
	}
	if !strings.HasSuffix(sub, "/") {
		sub += "/"
	}
	return sub
}

// InjectAnalytics inserts AnalyticsSnippet before the last closing body
// tag, else before the last closing html tag, else at the end.
func InjectAnalytics(html string) string {
	for _, re := range []*regexp.Regexp{bodyCloseRe, htmlCloseRe} {
		if i := lastMatch(re, html); i >= 0 {
			return html[:i] + AnalyticsSnippet + html[i:]
		}
	}
	return html + AnalyticsSnippet
}

func lastMatch(re *regexp.Regexp, s string) int {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][0]
}
