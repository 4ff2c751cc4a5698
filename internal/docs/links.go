package docs

import (
	"strconv"
	"strings"

	md "github.com/jcdickinson/ferrisdoc/internal/markdown"
)

// ResolveDocLinks resolves rustdoc intra-doc links to front-end anchors.
// The item's Links field maps markdown target text (e.g. "Value::as_str") to
// item IDs in the crate index. Only items of this crate are resolved; links
// into dependencies are left alone.
func ResolveDocLinks(item *RustdocItem, crate *RustdocCrate) map[string]string {
	if len(item.Links) == 0 {
		return nil
	}

	resolved := make(map[string]string, len(item.Links))
	for markdownTarget, itemID := range item.Links {
		anchor := ItemAnchor(itemID, crate)
		if anchor == "" {
			continue
		}
		resolved[markdownTarget] = anchor
	}

	if len(resolved) == 0 {
		return nil
	}
	return resolved
}

// ItemAnchor builds the front-end anchor for a rustdoc item ID, or "" if the
// item is unknown or belongs to another crate.
func ItemAnchor(itemID int, crate *RustdocCrate) string {
	summary, ok := crate.Paths[strconv.Itoa(itemID)]
	if !ok || summary.CrateID != 0 || len(summary.Path) == 0 {
		return ""
	}
	return "#/" + summary.Kind + "/" + strings.Join(summary.Path, "::")
}

// RewriteDocLinks returns docs with the item's intra-doc links replaced by
// front-end anchors.
func RewriteDocLinks(docs string, item *RustdocItem, crate *RustdocCrate) string {
	if docs == "" {
		return docs
	}
	return md.RewriteLinks(docs, ResolveDocLinks(item, crate))
}
