// Package reveal runs scroll-triggered reveal animations. A Scope owns the
// reveals of one mounted component and must be disposed with it; a Registry
// keeps at most one live Scope per component id.
package reveal

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	DefaultDuration = 0.9
	DefaultEase     = "power3.out"
)

var ErrDisposed = errors.New("reveal: scope disposed")

// Policy says what happens when the trigger line is crossed backwards.
type Policy string

const (
	// Once plays forward the first time and stops observing.
	Once Policy = "once"
	// Reversible plays forward on enter and backward on leaving back
	// ("play none none reverse").
	Reversible Policy = "reversible"
)

// ParsePolicy accepts once, reversible, or a four-action toggle string.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", string(Once):
		return Once, nil
	case string(Reversible):
		return Reversible, nil
	}
	actions := strings.Fields(s)
	if len(actions) != 4 {
		return "", fmt.Errorf("bad policy %q", s)
	}
	if actions[3] == "reverse" {
		return Reversible, nil
	}
	return Once, nil
}

// Spec describes one reveal.
type Spec struct {
	From     Props   `yaml:"from" json:"from"`
	Start    string  `yaml:"start" json:"start"`
	Policy   Policy  `yaml:"policy" json:"policy"`
	Duration float64 `yaml:"duration" json:"duration"`
	Ease     string  `yaml:"ease" json:"ease"`
	// Stagger delays each following target by this many seconds.
	Stagger float64 `yaml:"stagger" json:"stagger"`
}

type compiled struct {
	from     Style
	start    Start
	policy   Policy
	duration float32
	ease     ease.TweenFunc
	stagger  float64
}

func (s Spec) compile() (compiled, error) {
	var c compiled
	if err := s.From.validate(); err != nil {
		return c, err
	}
	start, err := ParseStart(s.Start)
	if err != nil {
		return c, err
	}
	policy, err := ParsePolicy(string(s.Policy))
	if err != nil {
		return c, err
	}
	fn, err := Ease(s.Ease)
	if err != nil {
		return c, err
	}
	if s.Duration < 0 || s.Stagger < 0 {
		return c, fmt.Errorf("negative timing")
	}
	dur := s.Duration
	if dur == 0 {
		dur = DefaultDuration
	}
	return compiled{
		from:     s.From.over(Rest),
		start:    start,
		policy:   policy,
		duration: float32(dur),
		ease:     fn,
		stagger:  s.Stagger,
	}, nil
}

// Target is anything that can be positioned and styled.
type Target interface {
	Bounds() Rect
	Apply(Style)
}

type entry struct {
	c      compiled
	target Target
	delay  float64

	inside bool
	fired  bool

	// progress 0 = hidden, 1 = rest
	progress float64
	tween    *gween.Tween
	wait     float64
}

func (e *entry) watching() bool {
	return e.c.policy == Reversible || !e.fired
}

func (e *entry) play(to float64) {
	span := to - e.progress
	if span < 0 {
		span = -span
	}
	if span == 0 {
		e.tween = nil
		return
	}
	e.tween = gween.New(float32(e.progress), float32(to), e.c.duration*float32(span), e.c.ease)
	e.wait = e.delay
}

func (e *entry) apply() {
	e.target.Apply(lerp(e.c.from, Rest, e.progress))
}

// Scope holds the reveals of one mounted component.
type Scope struct {
	id  string
	reg *Registry

	mu       sync.Mutex
	entries  []*entry
	disposed bool
}

// NewScope returns a scope outside any registry.
func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) ID() string { return s.id }

// Reveal registers targets with spec and renders them hidden right away.
// Nil targets are skipped.
func (s *Scope) Reveal(spec Spec, targets ...Target) error {
	c, err := spec.compile()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	n := 0
	for _, t := range targets {
		if isNil(t) {
			continue
		}
		e := &entry{c: c, target: t, delay: float64(n) * c.stagger}
		e.apply()
		s.entries = append(s.entries, e)
		n++
	}
	return nil
}

func isNil(t Target) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Observe checks every watched target against the viewport and starts
// forward or reverse transitions on crossings.
func (s *Scope) Observe(v Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	for _, e := range s.entries {
		if !e.watching() {
			continue
		}
		in := e.c.start.Crossed(e.target.Bounds(), v)
		switch {
		case in && !e.inside:
			e.inside = true
			e.fired = true
			e.play(1)
		case !in && e.inside:
			e.inside = false
			if e.c.policy == Reversible {
				e.play(0)
			}
		}
	}
}

// Tick advances running transitions by dt seconds.
func (s *Scope) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	for _, e := range s.entries {
		if e.tween == nil {
			continue
		}
		step := dt
		if e.wait > 0 {
			e.wait -= step
			if e.wait > 0 {
				continue
			}
			step = -e.wait
			e.wait = 0
		}
		v, done := e.tween.Update(float32(step))
		e.progress = float64(v)
		if done {
			e.tween = nil
		}
		e.apply()
	}
}

// Observers counts targets still watching the scroll position.
func (s *Scope) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if !s.disposed && e.watching() {
			n++
		}
	}
	return n
}

// Running counts transitions in flight.
func (s *Scope) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.tween != nil {
			n++
		}
	}
	return n
}

// Dispose drops every observer. With complete, running transitions jump to
// their end state; otherwise they stop where they are. Safe to call twice.
func (s *Scope) Dispose(complete bool) {
	s.dispose(complete)
	if s.reg != nil {
		s.reg.forget(s)
	}
}

func (s *Scope) dispose(complete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	for _, e := range s.entries {
		if e.tween == nil {
			continue
		}
		if complete {
			// a finished tween reports its end value
			v, _ := e.tween.Update(e.c.duration + float32(e.wait) + 1)
			e.progress = float64(v)
			e.apply()
		}
		e.tween = nil
	}
	s.entries = nil
	s.disposed = true
}

// Registry keeps one Scope per mounted component.
type Registry struct {
	mu     sync.Mutex
	scopes map[string]*Scope
}

func NewRegistry() *Registry {
	return &Registry{scopes: make(map[string]*Scope)}
}

// Mount returns a fresh scope for id, disposing whatever was mounted under
// that id before.
func (r *Registry) Mount(id string) *Scope {
	s := &Scope{id: id, reg: r}
	r.mu.Lock()
	old := r.scopes[id]
	r.scopes[id] = s
	r.mu.Unlock()
	if old != nil {
		old.dispose(false)
	}
	return s
}

// Unmount disposes the scope for id, completing running transitions.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	s := r.scopes[id]
	delete(r.scopes, id)
	r.mu.Unlock()
	if s != nil {
		s.dispose(true)
	}
}

func (r *Registry) forget(s *Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scopes[s.id] == s {
		delete(r.scopes, s.id)
	}
}

func (r *Registry) snapshot() []*Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Scope, 0, len(r.scopes))
	for _, s := range r.scopes {
		out = append(out, s)
	}
	return out
}

// Observe forwards a scroll event to every mounted scope.
func (r *Registry) Observe(v Viewport) {
	for _, s := range r.snapshot() {
		s.Observe(v)
	}
}

// Tick advances every mounted scope.
func (r *Registry) Tick(dt float64) {
	for _, s := range r.snapshot() {
		s.Tick(dt)
	}
}

// Observers is the total number of live observers across mounted scopes.
func (r *Registry) Observers() int {
	n := 0
	for _, s := range r.snapshot() {
		n += s.Observers()
	}
	return n
}

// Mounted is the number of live scopes.
func (r *Registry) Mounted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}
