// Package citations finds page references in generated answer text and maps
// them to rendered page images.
package citations

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
)

// Matches "Page 15" / "Pages 28, 32" case-insensitively. Deliberately
// lenient: any digits after the token count, with no check that the number is
// a real page — a bogus number simply resolves to nothing.
var (
	pagesRe  = regexp.MustCompile(`(?i)Pages?\s+([\d,\s]+)`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// ExtractPages returns the distinct page numbers cited in text, ascending.
func ExtractPages(text string) []int {
	seen := map[int]bool{}
	for _, m := range pagesRe.FindAllStringSubmatch(text, -1) {
		for _, d := range digitsRe.FindAllString(m[1], -1) {
			n, err := strconv.Atoi(d)
			if err != nil || n <= 0 {
				continue
			}
			seen[n] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	pages := make([]int, 0, len(seen))
	for n := range seen {
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages
}

// PageImage is one cited page and, when present, its rendered image path.
// A missing image is reported explicitly rather than dropped.
type PageImage struct {
	Page  int
	Path  string
	Found bool
}

// Resolve maps cited pages to image files in the manual store.
func Resolve(store *manualstore.Store, manual string, pages []int) []PageImage {
	out := make([]PageImage, 0, len(pages))
	for _, p := range pages {
		path, ok := store.PageImage(manual, p)
		out = append(out, PageImage{Page: p, Path: path, Found: ok})
	}
	return out
}
