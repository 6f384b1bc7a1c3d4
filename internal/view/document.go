package view

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/riskibarqy/matchlens/internal/domain/graph"
)

// ErrTargetNotFound is returned when a mutation names an element the page
// layout does not carry.
var ErrTargetNotFound = errors.New("render target not found")

type Op string

const (
	OpText        Op = "text"
	OpHTML        Op = "html"
	OpClassAdd    Op = "class_add"
	OpClassRemove Op = "class_remove"
	OpHidden      Op = "hidden"
	OpAttr        Op = "attr"
	OpStyle       Op = "style"
	OpChart       Op = "chart"
)

// Patch is one document mutation as seen by the browser shell.
type Patch struct {
	Version uint64 `json:"version"`
	Target  string `json:"target"`
	Op      Op     `json:"op"`
	Name    string `json:"name,omitempty"`
	Value   any    `json:"value"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Element is the render state of one named target.
type Element struct {
	ID      string            `json:"id"`
	Text    string            `json:"text,omitempty"`
	HTML    string            `json:"html,omitempty"`
	Classes []string          `json:"classes,omitempty"`
	Hidden  bool              `json:"hidden"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Styles  map[string]string `json:"styles,omitempty"`
	Chart   *graph.Figure     `json:"chart,omitempty"`
	Size    Size              `json:"size"`
}

type Snapshot struct {
	Version  uint64    `json:"version"`
	Elements []Element `json:"elements"`
}

type node struct {
	text    string
	html    string
	classes map[string]struct{}
	hidden  bool
	attrs   map[string]string
	styles  map[string]string
	chart   *graph.Figure
	size    Size
}

// Document holds every render target of one page. All methods are safe for
// concurrent use; patches are delivered in version order.
type Document struct {
	mu      sync.RWMutex
	nodes   map[string]*node
	version uint64
	subs    map[uint64]*Subscription
	nextSub uint64
}

func NewDocument(ids ...string) *Document {
	d := &Document{
		nodes: make(map[string]*node, len(ids)),
		subs:  make(map[uint64]*Subscription),
	}
	for _, id := range ids {
		d.nodes[id] = newNode()
	}
	return d
}

func newNode() *node {
	return &node{
		classes: make(map[string]struct{}),
		attrs:   make(map[string]string),
		styles:  make(map[string]string),
	}
}

func (d *Document) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.nodes[id]
	return ok
}

func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func (d *Document) SetText(id, text string) error {
	return d.mutate(id, OpText, "", text, func(n *node) bool {
		n.text = text
		n.html = ""
		return true
	})
}

func (d *Document) SetHTML(id, html string) error {
	return d.mutate(id, OpHTML, "", html, func(n *node) bool {
		n.html = html
		n.text = ""
		n.chart = nil
		return true
	})
}

func (d *Document) AddClass(id, class string) error {
	return d.mutate(id, OpClassAdd, "", class, func(n *node) bool {
		if _, ok := n.classes[class]; ok {
			return false
		}
		n.classes[class] = struct{}{}
		return true
	})
}

func (d *Document) RemoveClass(id, class string) error {
	return d.mutate(id, OpClassRemove, "", class, func(n *node) bool {
		if _, ok := n.classes[class]; !ok {
			return false
		}
		delete(n.classes, class)
		return true
	})
}

func (d *Document) HasClass(id, class string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.nodes[id]
	if !ok {
		return false, targetErr(id)
	}
	_, has := n.classes[class]
	return has, nil
}

func (d *Document) SetHidden(id string, hidden bool) error {
	return d.mutate(id, OpHidden, "", hidden, func(n *node) bool {
		if n.hidden == hidden {
			return false
		}
		n.hidden = hidden
		return true
	})
}

// ToggleHidden flips visibility and returns the new hidden state.
func (d *Document) ToggleHidden(id string) (bool, error) {
	var hidden bool
	err := d.mutateDynamic(id, func(n *node) (Patch, bool) {
		n.hidden = !n.hidden
		hidden = n.hidden
		return Patch{Target: id, Op: OpHidden, Value: hidden}, true
	})
	return hidden, err
}

func (d *Document) SetAttr(id, name, value string) error {
	return d.mutate(id, OpAttr, name, value, func(n *node) bool {
		if current, ok := n.attrs[name]; ok && current == value {
			return false
		}
		n.attrs[name] = value
		return true
	})
}

func (d *Document) SetStyle(id, name, value string) error {
	return d.mutate(id, OpStyle, name, value, func(n *node) bool {
		if current, ok := n.styles[name]; ok && current == value {
			return false
		}
		n.styles[name] = value
		return true
	})
}

// SetChart stores a figure on the target; the shell re-renders the chart in place.
func (d *Document) SetChart(id string, fig graph.Figure) error {
	stored := fig
	return d.mutate(id, OpChart, "", stored, func(n *node) bool {
		n.chart = &stored
		n.html = ""
		n.text = ""
		return true
	})
}

// SetSize records the measured size of a target as reported by the client.
// It does not produce a patch.
func (d *Document) SetSize(id string, size Size) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.nodes[id]
	if !ok {
		return targetErr(id)
	}
	n.size = size
	return nil
}

func (d *Document) Size(id string) (Size, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.nodes[id]
	if !ok {
		return Size{}, targetErr(id)
	}
	return n.size, nil
}

func (d *Document) Element(id string) (Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.nodes[id]
	if !ok {
		return Element{}, targetErr(id)
	}
	return n.element(id), nil
}

func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := Snapshot{Version: d.version, Elements: make([]Element, 0, len(ids))}
	for _, id := range ids {
		out.Elements = append(out.Elements, d.nodes[id].element(id))
	}
	return out
}

func (d *Document) mutate(id string, op Op, name string, value any, apply func(*node) bool) error {
	return d.mutateDynamic(id, func(n *node) (Patch, bool) {
		if !apply(n) {
			return Patch{}, false
		}
		return Patch{Target: id, Op: op, Name: name, Value: value}, true
	})
}

func (d *Document) mutateDynamic(id string, apply func(*node) (Patch, bool)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.nodes[id]
	if !ok {
		return targetErr(id)
	}
	patch, changed := apply(n)
	if !changed {
		return nil
	}
	d.version++
	patch.Version = d.version
	for _, sub := range d.subs {
		sub.deliver(patch)
	}
	return nil
}

func (n *node) element(id string) Element {
	el := Element{
		ID:     id,
		Text:   n.text,
		HTML:   n.html,
		Hidden: n.hidden,
		Size:   n.size,
	}
	if len(n.classes) > 0 {
		el.Classes = make([]string, 0, len(n.classes))
		for class := range n.classes {
			el.Classes = append(el.Classes, class)
		}
		sort.Strings(el.Classes)
	}
	if len(n.attrs) > 0 {
		el.Attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			el.Attrs[k] = v
		}
	}
	if len(n.styles) > 0 {
		el.Styles = make(map[string]string, len(n.styles))
		for k, v := range n.styles {
			el.Styles[k] = v
		}
	}
	if n.chart != nil {
		chart := *n.chart
		el.Chart = &chart
	}
	return el
}

func targetErr(id string) error {
	return fmt.Errorf("%w: id=%q", ErrTargetNotFound, id)
}

// Subscription receives patches in version order. When the buffer is full the
// patch is dropped and the subscription is marked lagged; the reader should
// then re-sync from a Snapshot.
type Subscription struct {
	id     uint64
	doc    *Document
	ch     chan Patch
	lagged atomic.Bool
	closed bool
}

func (d *Document) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 64
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextSub++
	sub := &Subscription{
		id:  d.nextSub,
		doc: d,
		ch:  make(chan Patch, buffer),
	}
	d.subs[sub.id] = sub
	return sub
}

func (s *Subscription) C() <-chan Patch {
	return s.ch
}

// TakeLagged reports whether patches were dropped since the last call.
func (s *Subscription) TakeLagged() bool {
	return s.lagged.CompareAndSwap(true, false)
}

func (s *Subscription) Close() {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.doc.subs, s.id)
	close(s.ch)
}

// deliver runs with the document lock held.
func (s *Subscription) deliver(p Patch) {
	select {
	case s.ch <- p:
	default:
		s.lagged.Store(true)
	}
}
