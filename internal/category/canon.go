package category

import "strings"

// Category is a canonical catalog category.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Defaults is the built-in category taxonomy. Catalog entries are free to
// carry categories outside this list; the canon exists for browsing and
// alias-aware filtering.
var Defaults = []Category{
	{Name: "Action", Slug: "action"},
	{Name: "Adventure", Slug: "adventure"},
	{Name: "Fantasy", Slug: "fantasy"},
	{Name: "Martial Arts", Slug: "martial-arts"},
	{Name: "Cultivation", Slug: "cultivation"},
	{Name: "System", Slug: "system"},
	{Name: "Regression", Slug: "regression"},
	{Name: "Reincarnation", Slug: "reincarnation"},
	{Name: "Romance", Slug: "romance"},
	{Name: "Drama", Slug: "drama"},
	{Name: "Historical", Slug: "historical"},
	{Name: "Comedy", Slug: "comedy"},
	{Name: "School Life", Slug: "school-life"},
	{Name: "Supernatural", Slug: "supernatural"},
	{Name: "Science Fiction", Slug: "science-fiction"},
	{Name: "Horror", Slug: "horror"},
	{Name: "Slice of Life", Slug: "slice-of-life"},
	{Name: "Sports", Slug: "sports"},
}

// aliases maps common variant slugs to canonical slugs.
var aliases = map[string]string{
	"wuxia":    "martial-arts",
	"murim":    "martial-arts",
	"xianxia":  "cultivation",
	"xuanhuan": "cultivation",
	"isekai":   "reincarnation",
	"rebirth":  "regression",
	"returner": "regression",
	"sci-fi":   "science-fiction",
	"scifi":    "science-fiction",
	"historic": "historical",
	"leveling": "system",
	"dungeon":  "fantasy",
	"school":   "school-life",
	"romcom":   "romance",
}

// Normalize resolves a raw category or filter string to a canonical slug.
// Unrecognized values normalize to their own slug.
func Normalize(raw string) string {
	slug := Slugify(raw)
	if canonical, ok := aliases[slug]; ok {
		return canonical
	}
	return slug
}

// Split breaks a stored compound category like "Action / Adventure" into
// canonical slugs, one per component.
func Split(raw string) []string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if slug := Normalize(p); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}

// Matches reports whether a filter term selects a stored category. A term
// matches when its canonical slug equals any component of the stored value.
func Matches(stored, filter string) bool {
	want := Normalize(filter)
	if want == "" {
		return false
	}
	for _, slug := range Split(stored) {
		if slug == want {
			return true
		}
	}
	return false
}

// DisplayName returns the canonical display name for a slug, or a
// title-cased fallback for slugs outside the canon.
func DisplayName(slug string) string {
	for _, c := range Defaults {
		if c.Slug == slug {
			return c.Name
		}
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
