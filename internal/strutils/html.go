package strutils

import (
	"fmt"
	"regexp"
	"strings"
)

var htmlTagRx = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)[^>]*?(/?)>`)

// Tags that never take a closing tag
var voidTags = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// BalanceMarkup closes any unclosed tags in s and drops closing tags that
// were never opened, so embedded previews can't break the surrounding layout.
func BalanceMarkup(s string) string {
	matches := htmlTagRx.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var out strings.Builder
	var openTags []string
	last := 0

	for _, m := range matches {
		tag := strings.ToLower(s[m[2]:m[3]])
		selfClosing := m[4] != m[5]
		closing := s[m[0]+1] == '/'

		if _, void := voidTags[tag]; void || selfClosing {
			continue
		}

		if !closing {
			openTags = append(openTags, tag)
			continue
		}

		// Closing tag: pop if it matches an open tag, drop it otherwise
		found := -1
		for i := len(openTags) - 1; i >= 0; i-- {
			if openTags[i] == tag {
				found = i
				break
			}
		}
		if found == -1 {
			out.WriteString(s[last:m[0]])
			last = m[1]
			continue
		}
		if found < len(openTags)-1 {
			// Mis-nested: close the inner tags before this closer
			out.WriteString(s[last:m[0]])
			last = m[0]
			for i := len(openTags) - 1; i > found; i-- {
				out.WriteString(fmt.Sprintf("</%s>", openTags[i]))
			}
		}
		openTags = openTags[:found]
	}

	out.WriteString(s[last:])

	for i := len(openTags) - 1; i >= 0; i-- {
		out.WriteString(fmt.Sprintf("</%s>", openTags[i]))
	}

	return out.String()
}
