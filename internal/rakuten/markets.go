// SPDX-License-Identifier: MIT

package rakuten

import "sort"

// classificationIDs maps a market code to the upstream classification_id the
// API expects for that market. The table mirrors what the web player sends.
var classificationIDs = map[string]int{
	"al": 270, "at": 300, "ba": 245, "be": 308, "bg": 269, "ch": 319,
	"cz": 272, "de": 307, "dk": 283, "ee": 288, "es": 5, "fi": 284,
	"fr": 23, "gr": 279, "hr": 302, "ie": 41, "is": 287, "it": 36,
	"jp": 309, "lt": 290, "lu": 74, "me": 259, "mk": 275, "nl": 69,
	"no": 286, "pl": 277, "pt": 64, "ro": 268, "rs": 266, "se": 282,
	"sk": 273, "uk": 18,
}

// Markets returns every known market code in alphabetical order. The order is
// deliberate: multi-market aggregation is last-source-wins, so callers need a
// deterministic iteration order.
func Markets() []string {
	out := make([]string, 0, len(classificationIDs))
	for cc := range classificationIDs {
		out = append(out, cc)
	}
	sort.Strings(out)
	return out
}

// ValidMarket reports whether cc is a known market code.
func ValidMarket(cc string) bool {
	_, ok := classificationIDs[cc]
	return ok
}

// ClassificationID returns the classification id for a market code, or 0 if
// the market is unknown.
func ClassificationID(cc string) int {
	return classificationIDs[cc]
}
