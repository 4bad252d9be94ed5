package filters

import "strings"

// Category is a browsable event category. SegmentID is the upstream
// classification id; the "all" category has none.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SegmentID string `json:"segment_id,omitempty"`
}

// CategoryAll applies no classification filter.
const CategoryAll = "all"

// Categories lists the selectable categories in display order.
var Categories = []Category{
	{ID: CategoryAll, Name: "All"},
	{ID: "music", Name: "Music", SegmentID: "KZFzniwnSyZfZ7v7nJ"},
	{ID: "sports", Name: "Sports", SegmentID: "KZFzniwnSyZfZ7v7nE"},
	{ID: "arts", Name: "Arts", SegmentID: "KZFzniwnSyZfZ7v7na"},
	{ID: "film", Name: "Film", SegmentID: "KZFzniwnSyZfZ7v7nn"},
	{ID: "misc", Name: "Misc", SegmentID: "KZFzniwnSyZfZ7v7n1"},
}

// CategoryByID looks up a category, case-insensitively.
func CategoryByID(id string) (Category, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Region is a country the listing can be restricted to.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Flag renders the region's flag emoji from its code.
func (r Region) Flag() string {
	if len(r.Code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(r.Code) {
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

// DefaultRegion is the region selected on first run and after ClearFilters.
const DefaultRegion = "US"

// Regions lists the supported regions: the common ones first, then the
// rest alphabetically.
var Regions = []Region{
	{"US", "United States"},
	{"GB", "United Kingdom"},
	{"CA", "Canada"},
	{"AU", "Australia"},
	{"DE", "Germany"},
	{"AT", "Austria"},
	{"BE", "Belgium"},
	{"CZ", "Czech Republic"},
	{"DK", "Denmark"},
	{"FI", "Finland"},
	{"FR", "France"},
	{"IE", "Ireland"},
	{"JP", "Japan"},
	{"MX", "Mexico"},
	{"NL", "Netherlands"},
	{"NZ", "New Zealand"},
	{"NO", "Norway"},
	{"PL", "Poland"},
	{"PT", "Portugal"},
	{"ZA", "South Africa"},
	{"ES", "Spain"},
	{"SE", "Sweden"},
	{"CH", "Switzerland"},
}

// RegionByCode looks up a region, case-insensitively.
func RegionByCode(code string) (Region, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, r := range Regions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}

// SortOption is a listing sort order in the API's "field,direction" form.
type SortOption string

const (
	SortDateAsc  SortOption = "date,asc"
	SortDateDesc SortOption = "date,desc"
	SortNameAsc  SortOption = "name,asc"
)

// SortOptions lists the sort orders in menu order.
var SortOptions = []SortOption{SortDateAsc, SortDateDesc, SortNameAsc}

var sortLabels = map[SortOption]string{
	SortDateAsc:  "Date ↑",
	SortDateDesc: "Date ↓",
	SortNameAsc:  "Name A-Z",
}

// SortLabel returns the menu label for s, or "Sort" when s is unknown.
func SortLabel(s SortOption) string {
	if l, ok := sortLabels[s]; ok {
		return l
	}
	return "Sort"
}

// ParseSort accepts either the API form ("date,asc") or the flag-friendly
// form ("date_asc").
func ParseSort(s string) (SortOption, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Replace(s, "_", ",", 1)
	for _, o := range SortOptions {
		if string(o) == s {
			return o, true
		}
	}
	return "", false
}
