package astfacade

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// JSDocTag is one @tag from a /** ... */ comment block.
type JSDocTag struct {
	Name string
	Text string
}

var tagPattern = regexp.MustCompile(`@(\w+)([^\n@]*)`)

// nearestCommentWindow is the maximum byte distance, per spec, between a
// declaration and the comment block considered to document it.
const nearestCommentWindow = 300

// JSDoc returns the tags from the nearest preceding /** */ block attached
// to n, either as a direct sibling comment node or within 300 bytes of n's
// start. Returns nil if no qualifying comment is found.
func (f *File) JSDoc(n *sitter.Node) []JSDocTag {
	if f.Tree == nil || n == nil {
		return nil
	}

	parent := n.Parent()
	if parent == nil {
		return nil
	}

	var best *sitter.Node
	for i := 0; i < int(parent.ChildCount()); i++ {
		sib := parent.Child(i)
		if sib == n {
			break
		}
		if IsComment(sib) {
			best = sib
		} else if sib.EndByte() < n.StartByte() {
			// A non-comment sibling resets adjacency unless still within window.
			if best != nil && n.StartByte()-best.EndByte() > nearestCommentWindow {
				best = nil
			}
		}
	}

	if best == nil || n.StartByte()-best.EndByte() > nearestCommentWindow {
		return nil
	}

	text := f.Text(best)
	if !strings.HasPrefix(strings.TrimSpace(text), "/**") {
		return nil
	}
	return parseTags(text)
}

func parseTags(comment string) []JSDocTag {
	var tags []JSDocTag
	for _, m := range tagPattern.FindAllStringSubmatch(comment, -1) {
		tags = append(tags, JSDocTag{Name: m[1], Text: strings.TrimSpace(m[2])})
	}
	return tags
}

// HasTag reports whether tags contains a tag named name.
func HasTag(tags []JSDocTag, name string) bool {
	for _, t := range tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
