package model

// FilterField names an adjustable MatchQuery filter.
type FilterField string

// Filterable fields.
const (
	FilterCategory FilterField = "category"
	FilterTitle    FilterField = "title"
	FilterYear     FilterField = "year"
	FilterSeason   FilterField = "season"
	FilterEpisode  FilterField = "episode"
)

// Filter is one MatchQuery entry. Non-exact filters only adjust the hints
// used for ranking; exact filters additionally constrain which candidates
// are eligible at all.
type Filter struct {
	Value string
	Exact bool
}

// MatchQuery is the current search context for one file: the free-text term
// plus independently toggleable filters. The eligible set is re-derived from
// the full candidate pool on every change, never accumulated.
type MatchQuery struct {
	Filters map[FilterField]Filter
	Term    string
}

// NewMatchQuery returns a query with the given free-text term and no filters.
func NewMatchQuery(term string) MatchQuery {
	return MatchQuery{Term: term, Filters: make(map[FilterField]Filter)}
}

// Set records or replaces the filter for a field.
func (q *MatchQuery) Set(field FilterField, value string, exact bool) {
	if q.Filters == nil {
		q.Filters = make(map[FilterField]Filter)
	}
	q.Filters[field] = Filter{Value: value, Exact: exact}
}

// Clear removes the filter for a field, if any.
func (q *MatchQuery) Clear(field FilterField) {
	delete(q.Filters, field)
}

// Get returns the filter for a field and whether it is set.
func (q MatchQuery) Get(field FilterField) (Filter, bool) {
	f, ok := q.Filters[field]
	return f, ok
}
