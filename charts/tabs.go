package charts

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownTab = errors.New("unknown tab")

// TabSet tracks which dashboard section is visible. Exactly one section is
// visible at any time.
type TabSet struct {
	names  []string
	active string
}

// NewTabSet creates a tab set showing the first name.
func NewTabSet(names ...string) *TabSet {
	t := &TabSet{names: slices.Clone(names)}
	if len(names) > 0 {
		t.active = names[0]
	}
	return t
}

// Show hides every section and reveals name. An unknown name leaves the
// current selection unchanged.
func (t *TabSet) Show(name string) error {
	if !slices.Contains(t.names, name) {
		return fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	t.active = name
	return nil
}

func (t *TabSet) Active() string {
	return t.active
}

func (t *TabSet) Visible(name string) bool {
	return name != "" && name == t.active
}

func (t *TabSet) Names() []string {
	return slices.Clone(t.names)
}
