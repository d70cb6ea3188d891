package catalog

import (
	"errors"
	"net/url"
	"strconv"
)

// ErrConflictingFilters is returned when a request names both a region and a language.
var ErrConflictingFilters = errors.New("region and language filters are mutually exclusive")

// FilterState is the (search, region, language, visible) tuple behind the
// directory page. Region and Language are never both set, and any change to
// the three filters resets Visible to one page.
type FilterState struct {
	Search   string
	Region   string
	Language string
	Visible  int
}

// NewFilterState returns the home state: no filters, one page.
func NewFilterState() FilterState {
	return FilterState{Visible: Reset()}
}

func (s FilterState) WithSearch(search string) FilterState {
	s.Search = search
	s.Visible = Reset()
	return s
}

// WithRegion sets the region and clears the language filter.
func (s FilterState) WithRegion(region string) FilterState {
	s.Region = region
	s.Language = ""
	s.Visible = Reset()
	return s
}

// WithLanguage sets the language and clears the region filter.
func (s FilterState) WithLanguage(language string) FilterState {
	s.Language = language
	s.Region = ""
	s.Visible = Reset()
	return s
}

func (s FilterState) LoadMore() FilterState {
	s.Visible = Advance(s.Visible)
	return s
}

// Home clears every filter, mirroring the navbar's logo link.
func (s FilterState) Home() FilterState {
	return NewFilterState()
}

// IsFiltered reports whether any of the three filters is active.
func (s FilterState) IsFiltered() bool {
	return s.Search != "" || s.Region != "" || s.Language != ""
}

// Query encodes the state as URL query parameters, omitting defaults.
func (s FilterState) Query() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set("q", s.Search)
	}
	if s.Region != "" {
		v.Set("region", s.Region)
	}
	if s.Language != "" {
		v.Set("language", s.Language)
	}
	if s.Visible != PageSize {
		v.Set("visible", strconv.Itoa(s.Visible))
	}
	return v
}

// ParseFilterState builds a state from q, region, language and visible
// parameters. visible is rounded up to a multiple of PageSize.
func ParseFilterState(values url.Values) (FilterState, error) {
	state := FilterState{
		Search:   values.Get("q"),
		Region:   values.Get("region"),
		Language: values.Get("language"),
	}
	if state.Region != "" && state.Language != "" {
		return FilterState{}, ErrConflictingFilters
	}

	visible, err := strconv.Atoi(values.Get("visible"))
	if err != nil {
		visible = 0
	}
	state.Visible = NormalizeVisible(visible)
	return state, nil
}
