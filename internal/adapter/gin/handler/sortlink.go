package handler

import (
	"net/url"

	"phoenix-web/internal/params"
)

// filterEchoes maps rendering-context keys back to list query parameters.
var filterEchoes = map[string]string{
	"currentFirstNameFilter":     "first_name",
	"currentLastNameFilter":      "last_name",
	"currentGenderFilter":        "gender",
	"currentBirthdateFromFilter": "birthdate_from",
	"currentBirthdateToFilter":   "birthdate_to",
}

// SortLink builds the list URL a column header should point at, cycling
// asc -> desc -> default for the active column and starting at asc for any
// other. Current filters are preserved. This is purely link generation;
// the parser itself stays stateless.
func SortLink(field string, ctx map[string]any) string {
	currentField, _ := ctx["currentSortField"].(string)
	currentOrder, _ := ctx["currentSort"].(string)

	next := params.SortAsc
	if currentField == field {
		switch currentOrder {
		case params.SortAsc:
			next = params.SortDesc
		case params.SortDesc:
			next = ""
		}
	}

	values := url.Values{}
	if next != "" {
		values.Set("sort_field", field)
		values.Set("sort_order", next)
	}
	for ctxKey, param := range filterEchoes {
		if v, _ := ctx[ctxKey].(string); v != "" {
			values.Set(param, v)
		}
	}

	if encoded := values.Encode(); encoded != "" {
		return "/users?" + encoded
	}
	return "/users"
}
