package catalog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/iliyamo/tv-show-library/internal/model"
)

// Match returns the shows whose title contains query under Unicode case
// folding, in the order of shows.  An empty query matches nothing.
func Match(query string, shows []model.Show) []model.Show {
	if query == "" {
		return nil
	}
	fq := model.TitleKey(query)
	out := make([]model.Show, 0)
	for _, s := range shows {
		if strings.Contains(model.TitleKey(s.Title), fq) {
			out = append(out, s)
		}
	}
	return out
}

// Highlight splits title around the first case-insensitive occurrence of
// query.  When no occurrence lines up with rune boundaries of title
// (folding can expand a rune, as with ß), the whole title is returned in
// before and ok is false.
func Highlight(title, query string) (before, match, after string, ok bool) {
	start, end, ok := foldIndex(title, query)
	if !ok {
		return title, "", "", false
	}
	return title[:start], title[start:end], title[end:], true
}

// foldIndex finds the byte span [start, end) of the first substring of s
// that folds to the same string as sub.
func foldIndex(s, sub string) (start, end int, ok bool) {
	if sub == "" {
		return 0, 0, false
	}
	fold := cases.Fold()
	target := fold.String(sub)
	for i := 0; i < len(s); {
		for j := i; j < len(s); {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
			f := fold.String(s[i:j])
			if f == target {
				return i, j, true
			}
			if !strings.HasPrefix(target, f) {
				break
			}
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return 0, 0, false
}
