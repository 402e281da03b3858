package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Section is one addressable unit of an act: an ATX heading, an article
// (Art. N), a chapter (Rozdział) or a part (DZIAŁ). Positions are byte
// offsets into the markdown; a section spans from its heading to the next
// heading or the end of the document.
type Section struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Level    int    `json:"level"`
	StartPos int    `json:"start_pos"`
	EndPos   int    `json:"end_pos"`
}

var headingPattern = regexp.MustCompile(
	`(?m)^(#{1,6})\s+(.+)$|^(Art\.\s*\d+[a-z]?\.?)(.*)$|^(Rozdział\s+\w+)(.*)$|^(DZIAŁ\s+\w+)(.*)$`)

var idStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s.-]`)

// IndexSections scans markdown for headings and returns the section index in
// document order. Every byte from the first heading onward belongs to
// exactly one section.
func IndexSections(markdown string) []Section {
	matches := headingPattern.FindAllStringSubmatchIndex(markdown, -1)
	sections := make([]Section, 0, len(matches))

	for i, m := range matches {
		start := m[0]
		end := len(markdown)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		title, level := titleAndLevel(markdown, m)
		if title == "" {
			continue
		}
		sections = append(sections, Section{
			ID:       SectionID(title),
			Title:    title,
			Level:    level,
			StartPos: start,
			EndPos:   end,
		})
	}
	return sections
}

// titleAndLevel decodes which alternative matched. Group pairs: 1/2 ATX
// hashes+text, 3/4 article marker+rest, 5/6 chapter, 7/8 part.
func titleAndLevel(markdown string, m []int) (string, int) {
	group := func(n int) string {
		lo, hi := m[2*n], m[2*n+1]
		if lo < 0 {
			return ""
		}
		return markdown[lo:hi]
	}

	switch {
	case group(1) != "":
		return strings.TrimSpace(group(2)), len(group(1))
	case group(3) != "":
		return strings.TrimSpace(group(3) + group(4)), 2
	case group(5) != "":
		return strings.TrimSpace(group(5) + group(6)), 1
	case group(7) != "":
		return strings.TrimSpace(group(7) + group(8)), 1
	default:
		return "", 0
	}
}

// SectionID derives a stable identifier from a heading title: punctuation
// other than dots and hyphens is stripped, whitespace becomes underscores,
// and the result is capped at 50 bytes.
func SectionID(title string) string {
	id := idStrip.ReplaceAllString(title, "")
	id = strings.TrimSpace(id)
	id = strings.Join(strings.Fields(id), "_")
	if len(id) > 50 {
		id = id[:50]
		for len(id) > 0 && !utf8.ValidString(id) {
			id = id[:len(id)-1]
		}
	}
	return id
}
