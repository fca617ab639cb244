// Package params converts raw, string-keyed query parameters into validated
// filter/sort specifications and user identifiers. All functions are pure:
// they never perform I/O and hold no state between calls.
package params

import (
	"net/url"
	"regexp"
	"strconv"

	"phoenix-web/internal/domain/user"
	"phoenix-web/pkg/errors"
)

// Sort orders recognized by the list endpoint.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// validSortFields is the closed set of fields the upstream API can sort on.
var validSortFields = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"gender":     true,
	"birthdate":  true,
}

// datePattern is a shape check only: 2024-99-99 passes. Calendar validity
// is not this layer's concern.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseUserID validates a path identifier. Both "not numeric" and
// "numeric but <= 0" fail with the same InvalidUserIDError carrying the
// raw value.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidUserIDError(raw)
	}
	return id, nil
}

// ParseSortField returns the sort field, or "" when absent. A non-empty
// value outside the valid set is a hard error, unlike the gender and date
// filters which drop bad values silently.
func ParseSortField(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !validSortFields[raw] {
		return "", errors.NewInvalidSortFieldError(raw)
	}
	return raw, nil
}

// ParseSortOrder returns "asc", "desc", or "" for absent/empty. Any other
// literal is a hard error. The asc -> desc -> default cycle is a
// link-generation concern of the templates; this parser is stateless.
func ParseSortOrder(raw string) (string, error) {
	switch raw {
	case SortAsc, SortDesc:
		return raw, nil
	case "":
		return "", nil
	default:
		return "", errors.NewInvalidSortOrderError(raw)
	}
}

// ParseNameFilter passes a substring filter through unchanged, normalizing
// empty to absent. No trimming, no case normalization.
func ParseNameFilter(raw string) string {
	return raw
}

// ParseGenderFilter returns the gender filter, or "" when absent or when
// the value is not male/female. An unknown gender is dropped, not an error.
func ParseGenderFilter(raw string) string {
	if raw == user.GenderMale || raw == user.GenderFemale {
		return raw
	}
	return ""
}

// ParseDateFilter returns the date filter, or "" when absent or when the
// value does not match the YYYY-MM-DD shape. Malformed dates are dropped,
// not an error.
func ParseDateFilter(raw string) string {
	if raw == "" || !datePattern.MatchString(raw) {
		return ""
	}
	return raw
}

// ValidDateRange reports whether a birthdate range is acceptable. The range
// is invalid only when both bounds are present and from > to; plain string
// comparison is correct for zero-padded ISO dates.
func ValidDateRange(from, to string) bool {
	return from == "" || to == "" || from <= to
}

// FilterSortSpec is the validated, typed representation of all list-query
// parameters. Empty string means "absent" throughout.
type FilterSortSpec struct {
	SortField     string
	SortOrder     string
	FirstName     string
	LastName      string
	Gender        string
	BirthdateFrom string
	BirthdateTo   string
}

// ParseFilterSortSpec builds a FilterSortSpec from raw query parameters.
// Invalid sort field/order surface as errors; invalid gender and malformed
// dates are dropped silently. The date range is not checked here: callers
// decide how to surface it (see ValidDateRange).
func ParseFilterSortSpec(query url.Values) (FilterSortSpec, error) {
	var spec FilterSortSpec

	sortField, err := ParseSortField(query.Get("sort_field"))
	if err != nil {
		return FilterSortSpec{}, err
	}
	sortOrder, err := ParseSortOrder(query.Get("sort_order"))
	if err != nil {
		return FilterSortSpec{}, err
	}

	spec.SortField = sortField
	spec.SortOrder = sortOrder
	spec.FirstName = ParseNameFilter(query.Get("first_name"))
	spec.LastName = ParseNameFilter(query.Get("last_name"))
	spec.Gender = ParseGenderFilter(query.Get("gender"))
	spec.BirthdateFrom = ParseDateFilter(query.Get("birthdate_from"))
	spec.BirthdateTo = ParseDateFilter(query.Get("birthdate_to"))

	return spec, nil
}

// UpstreamFilters maps the spec onto the query keys the Phoenix API
// understands. Sort and order are forwarded only when both are present.
func (s FilterSortSpec) UpstreamFilters() map[string]string {
	filters := make(map[string]string)

	if s.SortField != "" && s.SortOrder != "" {
		filters["sort"] = s.SortField
		filters["order"] = s.SortOrder
	}
	if s.FirstName != "" {
		filters["first_name"] = s.FirstName
	}
	if s.LastName != "" {
		filters["last_name"] = s.LastName
	}
	if s.Gender != "" {
		filters["gender"] = s.Gender
	}
	if s.BirthdateFrom != "" {
		filters["birthdate_from"] = s.BirthdateFrom
	}
	if s.BirthdateTo != "" {
		filters["birthdate_to"] = s.BirthdateTo
	}

	return filters
}
