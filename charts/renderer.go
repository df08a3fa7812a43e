package charts

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fruitcast/dashboard/summary"
)

var (
	ErrMissingMountPoint = errors.New("mount point not found")
	ErrUnknownSeries     = errors.New("unknown series")
)

// Layout is the set of mount points a page provides, grouped by tab.
type Layout struct {
	tabs   []string
	mounts map[string]string
}

func NewLayout() *Layout {
	return &Layout{mounts: map[string]string{}}
}

// DefaultLayout provides a mount point for every entry of Definitions.
func DefaultLayout() *Layout {
	l := NewLayout()
	for _, def := range Definitions {
		l.Add(def.Tab, def.MountPoint)
	}
	return l
}

func (l *Layout) Add(tab, mountPoint string) {
	if !slices.Contains(l.tabs, tab) {
		l.tabs = append(l.tabs, tab)
	}
	l.mounts[mountPoint] = tab
}

func (l *Layout) Has(mountPoint string) bool {
	_, ok := l.mounts[mountPoint]
	return ok
}

func (l *Layout) Tabs() []string {
	return slices.Clone(l.tabs)
}

// View is one chart bound to one mount point.
type View struct {
	Definition
	Series summary.Series
	Chart  Chart

	released bool
}

// Release detaches the chart from its mount point.
func (v *View) Release() {
	v.Chart = nil
	v.released = true
}

func (v *View) Released() bool {
	return v.released
}

// Renderer turns a bundle into chart views. It is not safe for concurrent use.
type Renderer struct {
	layout *Layout
	style  Style
	defs   []Definition
	views  []*View
}

func NewRenderer(layout *Layout, style Style) *Renderer {
	return &Renderer{layout: layout, style: style, defs: Definitions}
}

// RenderAll validates every mount point and series of the bundle, then builds one view per
// definition. Views from a previous call are released first, so each mount point holds
// exactly one live view. On error the previous views are left untouched.
func (r *Renderer) RenderAll(b summary.Bundle) error {
	series := make([]summary.Series, len(r.defs))
	for i, def := range r.defs {
		if !r.layout.Has(def.MountPoint) {
			return fmt.Errorf("%w: %s", ErrMissingMountPoint, def.MountPoint)
		}
		s, ok := b.Series(def.Series)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSeries, def.Series)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("rendering %s: %w", def.MountPoint, err)
		}
		series[i] = s
	}

	r.Release()
	for i, def := range r.defs {
		r.views = append(r.views, &View{
			Definition: def,
			Series:     series[i],
			Chart:      build(def, series[i], r.style),
		})
	}
	return nil
}

// Release detaches every live view.
func (r *Renderer) Release() {
	for _, v := range r.views {
		v.Release()
	}
	r.views = nil
}

func (r *Renderer) Views() []*View {
	return slices.Clone(r.views)
}

func (r *Renderer) View(mountPoint string) (*View, bool) {
	for _, v := range r.views {
		if v.MountPoint == mountPoint {
			return v, true
		}
	}
	return nil, false
}

// ViewsForTab returns the views mounted in one section, in page order.
func (r *Renderer) ViewsForTab(tab string) []*View {
	var views []*View
	for _, v := range r.views {
		if v.Tab == tab {
			views = append(views, v)
		}
	}
	return views
}
