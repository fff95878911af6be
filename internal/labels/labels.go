// Package labels turns free-text device names into metric-safe label tokens.
package labels

import (
	"regexp"
	"strings"
	"unicode"
)

// Device names frequently arrive in Cyrillic; Pushgateway grouping keys and
// dashboards are much friendlier with plain ASCII labels.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var nonToken = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Sanitize maps an arbitrary display name to a token matching
// ^[a-z0-9_]+$. It never fails: names that sanitize away entirely come
// back as "unknown". The function is idempotent.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if latin, ok := translit[unicode.ToLower(r)]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	out := nonToken.ReplaceAllString(b.String(), "_")
	out = strings.Trim(out, "_")
	out = strings.ToLower(out)
	if out == "" {
		return "unknown"
	}
	return out
}
