package blocks

import (
	"regexp"
	"strings"
)

var numberedItemRe = regexp.MustCompile(`^\d+\. (.*)$`)

// FromText converts a restricted markdown-like text into a flat sequence
// of blocks. It is a deterministic single pass over the input lines:
// fenced code blocks, #/##/### headings, -/* bullets, "N." numbered
// items, "> " quotes and blank separators are recognized; everything
// else becomes a paragraph. No inline markup is parsed and no limits are
// enforced here; callers must pass the result through Sanitize before
// dispatching it.
func FromText(text string) []Block {
	var out []Block

	inFence := false
	fenceLang := ""
	var fenceLines []string

	for _, raw := range strings.Split(text, "\n") {
		if inFence {
			if strings.HasPrefix(raw, "```") {
				out = append(out, Code(strings.Join(fenceLines, "\n"), fenceLang))
				inFence = false
				fenceLang = ""
				fenceLines = nil
				continue
			}
			// Fence content is kept verbatim, trailing whitespace included.
			fenceLines = append(fenceLines, raw)
			continue
		}

		line := strings.TrimRight(raw, " \t")

		switch {
		case strings.HasPrefix(line, "```"):
			inFence = true
			fenceLang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
		case strings.HasPrefix(line, "### "):
			out = append(out, Heading3(strings.TrimPrefix(line, "### ")))
		case strings.HasPrefix(line, "## "):
			out = append(out, Heading2(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "# "):
			out = append(out, Heading1(strings.TrimPrefix(line, "# ")))
		case strings.HasPrefix(line, "- "):
			out = append(out, BulletedListItem(strings.TrimPrefix(line, "- ")))
		case strings.HasPrefix(line, "* "):
			out = append(out, BulletedListItem(strings.TrimPrefix(line, "* ")))
		case numberedItemRe.MatchString(line):
			// The printed number is discarded; document order defines
			// the rendered numbering.
			m := numberedItemRe.FindStringSubmatch(line)
			out = append(out, NumberedListItem(m[1]))
		case strings.HasPrefix(line, "> "):
			out = append(out, Quote(strings.TrimPrefix(line, "> ")))
		case line == "":
			// Blank lines separate blocks but are not emitted.
		default:
			out = append(out, Paragraph(line))
		}
	}

	// An unclosed fence still yields a code block with whatever was
	// accumulated before end of input.
	if inFence {
		out = append(out, Code(strings.Join(fenceLines, "\n"), fenceLang))
	}

	return out
}
