// Package markdown inspects and edits rustdoc markdown without re-rendering it.
package markdown

import (
	"sort"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

func parse(src string) ast.Node {
	return gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))
}

// Destinations returns the unique link destinations in src, in document order.
func Destinations(src string) []string {
	var dests []string
	seen := make(map[string]bool)
	ast.WalkFunc(parse(src), func(node ast.Node, entering bool) ast.WalkStatus {
		if link, ok := node.(*ast.Link); ok && entering {
			dest := string(link.Destination)
			if dest != "" && !seen[dest] {
				seen[dest] = true
				dests = append(dests, dest)
			}
		}
		return ast.GoToNext
	})
	return dests
}

// RewriteLinks replaces link destinations found in linkMap. The source text
// is edited in place so the author's formatting survives.
func RewriteLinks(src string, linkMap map[string]string) string {
	if len(linkMap) == 0 {
		return src
	}

	var inline []string
	refs := make(map[string]string)
	for _, dest := range Destinations(src) {
		to, ok := linkMap[dest]
		if !ok {
			continue
		}
		inline = append(inline, "]("+dest+")", "]("+to+")")
		refs["]: "+dest] = "]: " + to
	}

	result := src
	if len(inline) > 0 {
		result = strings.NewReplacer(inline...).Replace(src)
	}
	result = expandShortcuts(result, linkMap)

	// [ref]: destination
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for from, to := range refs {
			if strings.HasSuffix(trimmed, from) {
				lines[i] = strings.Replace(line, from, to, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// expandShortcuts turns undefined shortcut links such as [`Foo`] into inline
// links when linkMap knows the target. Rustdoc resolves these itself so the
// markdown parser never reports them.
func expandShortcuts(src string, linkMap map[string]string) string {
	keys := make([]string, 0, len(linkMap))
	for k := range linkMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pat := "[" + key + "]"
		var b strings.Builder
		for {
			i := strings.Index(src, pat)
			if i < 0 {
				b.WriteString(src)
				break
			}
			end := i + len(pat)

			var prev, next byte
			if i > 0 {
				prev = src[i-1]
			} else if s := b.String(); s != "" {
				prev = s[len(s)-1]
			}
			if end < len(src) {
				next = src[end]
			}

			b.WriteString(src[:end])
			if prev != ']' && prev != '[' && next != '(' && next != '[' && next != ':' {
				b.WriteString("(" + linkMap[key] + ")")
			}
			src = src[end:]
		}
		src = b.String()
	}
	return src
}

// Summary returns the first paragraph of src as plain text.
func Summary(src string) string {
	var para *ast.Paragraph
	ast.WalkFunc(parse(src), func(node ast.Node, entering bool) ast.WalkStatus {
		if p, ok := node.(*ast.Paragraph); ok && entering {
			para = p
			return ast.Terminate
		}
		return ast.GoToNext
	})
	if para == nil {
		return ""
	}

	var b strings.Builder
	ast.WalkFunc(para, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Text:
			b.Write(n.Literal)
		case *ast.Code:
			b.Write(n.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			b.WriteByte(' ')
		}
		return ast.GoToNext
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
