// Package view holds the per-request page state: which tab is active and
// which sort mode the reading list uses.
package view

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/starford/homepage/internal/apperr"
	"github.com/starford/homepage/internal/sorting"
)

// Tab names a page section.
type Tab string

// Known tabs. A page variant enables a subset of them.
const (
	TabAbout       Tab = "about"
	TabBooks       Tab = "books"
	TabInspiration Tab = "inspiration"
	TabMap         Tab = "map"
	TabThoughts    Tab = "thoughts"
)

// AllTabs lists every known tab in navigation order.
var AllTabs = []Tab{TabAbout, TabBooks, TabInspiration, TabMap, TabThoughts}

var tabLabels = map[Tab]string{
	TabAbout:       "About",
	TabBooks:       "Books",
	TabInspiration: "Inspiration",
	TabMap:         "Map",
	TabThoughts:    "Thoughts",
}

// Query parameter names used to carry state in page URLs.
const (
	ParamTab    = "tab"
	ParamSort   = "sort"
	ParamMarker = "marker"
)

// Label returns the navigation label for t.
func (t Tab) Label() string {
	if l, ok := tabLabels[t]; ok {
		return l
	}
	return string(t)
}

// Known reports whether t is one of AllTabs.
func (t Tab) Known() bool {
	return slices.Contains(AllTabs, t)
}

// SectionState is the visibility of one section.
type SectionState struct {
	Tab     Tab
	Visible bool
}

// TabLinkState is one navigation control.
type TabLinkState struct {
	Tab    Tab
	Href   string
	Active bool
}

// State is the view state of one page render.
type State struct {
	tabs      []Tab
	ActiveTab Tab
	SortMode  sorting.Mode
	Marker    int
}

// New returns the initial state for a page offering tabs, with defaultTab
// active and the default sort mode. defaultTab must be one of tabs.
func New(tabs []Tab, defaultTab Tab) (*State, error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("view: no tabs configured")
	}
	if !slices.Contains(tabs, defaultTab) {
		return nil, fmt.Errorf("view: default tab %q: %w", defaultTab, apperr.ErrUnknownTab)
	}
	return &State{
		tabs:      slices.Clone(tabs),
		ActiveTab: defaultTab,
		SortMode:  sorting.Default,
	}, nil
}

// Tabs returns the tabs offered by this page.
func (s *State) Tabs() []Tab {
	return slices.Clone(s.tabs)
}

// Has reports whether the page offers tab t.
func (s *State) Has(t Tab) bool {
	return slices.Contains(s.tabs, t)
}

// SelectTab makes t the only visible section. A tab the page does not offer
// leaves the state unchanged and returns apperr.ErrUnknownTab.
func (s *State) SelectTab(t Tab) error {
	if !s.Has(t) {
		return fmt.Errorf("view: select %q: %w", t, apperr.ErrUnknownTab)
	}
	s.ActiveTab = t
	return nil
}

// AdvanceSort moves to the next sort mode in the cycle and returns it.
func (s *State) AdvanceSort() sorting.Mode {
	s.SortMode = sorting.Next(s.SortMode)
	return s.SortMode
}

// SortButtonLabel names the mode the sort control switches to next.
func (s *State) SortButtonLabel() string {
	return sorting.Label(sorting.Next(s.SortMode))
}

// Sections reports the visibility of every offered section. Exactly one is
// visible.
func (s *State) Sections() []SectionState {
	out := make([]SectionState, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = SectionState{Tab: t, Visible: t == s.ActiveTab}
	}
	return out
}

// TabLinks returns one navigation control per offered tab; exactly one is
// active. Each link keeps the current sort mode.
func (s *State) TabLinks() []TabLinkState {
	out := make([]TabLinkState, len(s.tabs))
	for i, t := range s.tabs {
		c := s.clone()
		c.ActiveTab = t
		out[i] = TabLinkState{Tab: t, Href: c.URL(), Active: t == s.ActiveTab}
	}
	return out
}

// SortURL is the link behind the sort control: the books tab with the next
// sort mode applied.
func (s *State) SortURL() string {
	c := s.clone()
	c.ActiveTab = TabBooks
	c.AdvanceSort()
	return c.URL()
}

// MarkerURL is the link behind the "advance marker" control.
func (s *State) MarkerURL(next int) string {
	c := s.clone()
	c.ActiveTab = TabMap
	c.Marker = next
	return c.URL()
}

// URL encodes the state as a page URL. The fragment mirrors the active tab
// so in-page anchors keep working.
func (s *State) URL() string {
	v := url.Values{}
	v.Set(ParamTab, string(s.ActiveTab))
	if s.SortMode != sorting.Default {
		v.Set(ParamSort, string(s.SortMode))
	}
	if s.Marker > 0 {
		v.Set(ParamMarker, strconv.Itoa(s.Marker))
	}
	return "/?" + v.Encode() + "#" + string(s.ActiveTab)
}

// Apply restores state from query parameters. Unknown or malformed values
// are ignored and leave the corresponding field at its current value.
func (s *State) Apply(q url.Values) {
	if t := q.Get(ParamTab); t != "" {
		_ = s.SelectTab(Tab(t))
	}
	if m := sorting.Mode(q.Get(ParamSort)); m.Valid() {
		s.SortMode = m
	}
	if n, err := strconv.Atoi(q.Get(ParamMarker)); err == nil && n >= 0 {
		s.Marker = n
	}
}

func (s *State) clone() *State {
	c := *s
	return &c
}

// FromQuery builds the initial state for tabs and then applies q.
func FromQuery(tabs []Tab, defaultTab Tab, q url.Values) (*State, error) {
	s, err := New(tabs, defaultTab)
	if err != nil {
		return nil, err
	}
	s.Apply(q)
	return s, nil
}
