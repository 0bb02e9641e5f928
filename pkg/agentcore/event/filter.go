package event

import "reflect"

// Filter is a pure predicate over a single event. Implementations must be
// side-effect free and safe for concurrent use; all built-in filters are
// immutable once constructed.
type Filter interface {
	Matches(evt *Event) bool
}

// FilterMode selects the combinator semantics of a CompositeFilter.
type FilterMode int

const (
	// MatchAll requires every child filter to match (logical AND).
	// A composite with no children matches vacuously.
	MatchAll FilterMode = iota

	// MatchAny requires at least one child filter to match (logical OR).
	// A composite with no children never matches.
	MatchAny
)

// TypeFilter accepts events whose type is in the allowed set.
type TypeFilter struct {
	types map[Type]struct{}
}

// NewTypeFilter builds a filter matching any of the given types.
func NewTypeFilter(types ...Type) *TypeFilter {
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return &TypeFilter{types: set}
}

// Matches implements Filter.
func (f *TypeFilter) Matches(evt *Event) bool {
	_, ok := f.types[evt.Type()]
	return ok
}

// SourceFilter accepts events originating from the given source IDs.
type SourceFilter struct {
	sources map[string]struct{}
}

// NewSourceFilter builds a filter matching any of the given source IDs.
func NewSourceFilter(sourceIDs ...string) *SourceFilter {
	set := make(map[string]struct{}, len(sourceIDs))
	for _, id := range sourceIDs {
		set[id] = struct{}{}
	}
	return &SourceFilter{sources: set}
}

// Matches implements Filter.
func (f *SourceFilter) Matches(evt *Event) bool {
	_, ok := f.sources[evt.SourceID()]
	return ok
}

// MetadataFilter accepts events whose metadata contains a matching
// key/value pair. An absent key is a non-match, never an error.
type MetadataFilter struct {
	key   string
	value any
}

// NewMetadataFilter builds a filter on one metadata key/value pair.
func NewMetadataFilter(key string, value any) *MetadataFilter {
	return &MetadataFilter{key: key, value: value}
}

// Matches implements Filter.
func (f *MetadataFilter) Matches(evt *Event) bool {
	v, ok := evt.MetadataValue(f.key)
	if !ok {
		return false
	}
	return reflect.DeepEqual(v, f.value)
}

// CompositeFilter combines child filters with AND or OR semantics.
// Composites nest freely, so arbitrary predicate trees can be expressed.
type CompositeFilter struct {
	filters []Filter
	mode    FilterMode
}

// NewCompositeFilter builds a combinator over the given children.
func NewCompositeFilter(mode FilterMode, filters ...Filter) *CompositeFilter {
	return &CompositeFilter{filters: filters, mode: mode}
}

// Matches implements Filter.
func (f *CompositeFilter) Matches(evt *Event) bool {
	if f.mode == MatchAll {
		for _, child := range f.filters {
			if !child.Matches(evt) {
				return false
			}
		}
		return true
	}
	for _, child := range f.filters {
		if child.Matches(evt) {
			return true
		}
	}
	return false
}

// And combines two filters with AND semantics.
func And(a, b Filter) *CompositeFilter {
	return NewCompositeFilter(MatchAll, a, b)
}

// Or combines two filters with OR semantics.
func Or(a, b Filter) *CompositeFilter {
	return NewCompositeFilter(MatchAny, a, b)
}
