package reveal

import (
	"errors"
	"math"
	"sync"
	"testing"
)

type box struct {
	rect    Rect
	style   Style
	applies int
}

func (b *box) Bounds() Rect  { return b.rect }
func (b *box) Apply(s Style) { b.style = s; b.applies++ }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func sameStyle(a, b Style) bool {
	return near(a.Opacity, b.Opacity) && near(a.X, b.X) && near(a.Y, b.Y) &&
		near(a.Scale, b.Scale) && near(a.RotateY, b.RotateY)
}

var hidden = Style{Opacity: 0, Y: 40, Scale: 1}

func fadeUp(policy Policy) Spec {
	return Spec{From: Props{Opacity: 0, Y: 40}, Start: "top 85%", Policy: policy}
}

// element at y=1000 in a 800px window fires once scrollY passes 320
var (
	above = Viewport{ScrollY: 0, Height: 800}
	below = Viewport{ScrollY: 600, Height: 800}
)

func newBox() *box { return &box{rect: Rect{Top: 1000, Height: 200}} }

func TestParseStart(t *testing.T) {
	tests := []struct {
		expr string
		want Start
	}{
		{"top 85%", Start{Edge{}, Edge{Frac: 0.85}}},
		{"center center", Start{Edge{Frac: 0.5}, Edge{Frac: 0.5}}},
		{"bottom 100px", Start{Edge{Frac: 1}, Edge{Px: 100}}},
		{"top", Start{}},
		{"", DefaultStart},
		{"20% -50", Start{Edge{Frac: 0.2}, Edge{Px: -50}}},
	}
	for _, tt := range tests {
		got, err := ParseStart(tt.expr)
		if err != nil {
			t.Errorf("%q: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q = %+v, want %+v", tt.expr, got, tt.want)
		}
	}

	for _, bad := range []string{"top 85% extra", "middle 10%", "x% top", "top abcpx"} {
		if _, err := ParseStart(bad); err == nil {
			t.Errorf("%q parsed", bad)
		}
	}
}

func TestCrossed(t *testing.T) {
	s := DefaultStart
	r := Rect{Top: 1000, Height: 200}
	if s.Crossed(r, Viewport{ScrollY: 300, Height: 800}) {
		t.Error("crossed at 300")
	}
	if !s.Crossed(r, Viewport{ScrollY: 320, Height: 800}) {
		t.Error("not crossed at 320")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := map[string]Policy{
		"":                          Once,
		"once":                      Once,
		"reversible":                Reversible,
		"play none none reverse":    Reversible,
		"play none none none":       Once,
		"play reverse play reverse": Reversible,
	}
	for in, want := range tests {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("%q = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("sometimes"); err == nil {
		t.Error("bad policy accepted")
	}
}

func TestRevealRendersHidden(t *testing.T) {
	s := NewScope()
	b := newBox()
	if err := s.Reveal(fadeUp(Once), b); err != nil {
		t.Fatal(err)
	}
	if !sameStyle(b.style, hidden) {
		t.Fatalf("style = %+v", b.style)
	}
}

func TestOncePlaysForwardOnly(t *testing.T) {
	s := NewScope()
	b := newBox()
	s.Reveal(fadeUp(Once), b)

	s.Observe(above)
	if s.Running() != 0 {
		t.Fatal("started above the line")
	}
	s.Observe(below)
	if s.Observers() != 0 {
		t.Errorf("once reveal still observing after firing")
	}
	s.Tick(0.45)
	if b.style.Opacity <= 0 || b.style.Opacity >= 1 {
		t.Errorf("halfway opacity = %v", b.style.Opacity)
	}
	s.Tick(1)
	if !sameStyle(b.style, Rest) {
		t.Fatalf("after play: %+v", b.style)
	}

	s.Observe(above)
	s.Tick(1)
	if !sameStyle(b.style, Rest) {
		t.Fatalf("once reveal reversed: %+v", b.style)
	}
}

func TestReversiblePlaysBack(t *testing.T) {
	s := NewScope()
	b := newBox()
	s.Reveal(fadeUp(Reversible), b)

	s.Observe(below)
	s.Tick(1)
	if !sameStyle(b.style, Rest) {
		t.Fatalf("forward: %+v", b.style)
	}
	if s.Observers() != 1 {
		t.Fatal("reversible reveal stopped observing")
	}

	s.Observe(above)
	s.Tick(1)
	if !sameStyle(b.style, hidden) {
		t.Fatalf("reverse: %+v", b.style)
	}

	// repeated events on the same side do nothing
	s.Observe(above)
	if s.Running() != 0 {
		t.Fatal("restarted without crossing")
	}
}

func TestStagger(t *testing.T) {
	s := NewScope()
	first, second := newBox(), newBox()
	spec := fadeUp(Once)
	spec.Stagger = 1
	s.Reveal(spec, first, second)

	s.Observe(below)
	s.Tick(0.5)
	if first.style.Opacity == 0 {
		t.Error("first target did not start")
	}
	if !sameStyle(second.style, hidden) {
		t.Errorf("second target started early: %+v", second.style)
	}
	s.Tick(2)
	if !sameStyle(first.style, Rest) || !sameStyle(second.style, Rest) {
		t.Errorf("not finished: %+v %+v", first.style, second.style)
	}
}

func TestNilTargetsSkipped(t *testing.T) {
	s := NewScope()
	var missing *box
	b := newBox()
	if err := s.Reveal(fadeUp(Reversible), nil, missing, b); err != nil {
		t.Fatalf("nil targets caused error: %v", err)
	}
	if s.Observers() != 1 {
		t.Fatalf("observers = %d", s.Observers())
	}
	s.Observe(below)
	s.Tick(1)
	if !sameStyle(b.style, Rest) {
		t.Fatal("real target not animated")
	}
}

func TestBadSpecs(t *testing.T) {
	s := NewScope()
	bad := []Spec{
		{Ease: "wobbly.out"},
		{From: Props{"skew": 3}},
		{Start: "sideways 50%"},
		{Duration: -1},
		{Policy: "twice"},
	}
	for _, spec := range bad {
		if err := s.Reveal(spec, newBox()); err == nil {
			t.Errorf("%+v accepted", spec)
		}
	}
	if s.Observers() != 0 {
		t.Error("bad spec registered targets")
	}
}

func TestEaseNames(t *testing.T) {
	for _, name := range []string{"", "none", "power3", "power3.out", "sine.inOut", "back.out"} {
		if _, err := Ease(name); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
}

func TestDisposeCompleteOrCancel(t *testing.T) {
	done, cut := newBox(), newBox()
	s1, s2 := NewScope(), NewScope()
	s1.Reveal(fadeUp(Once), done)
	s2.Reveal(fadeUp(Once), cut)
	s1.Observe(below)
	s2.Observe(below)
	s1.Tick(0.3)
	s2.Tick(0.3)
	mid := cut.style

	s1.Dispose(true)
	s2.Dispose(false)
	if !sameStyle(done.style, Rest) {
		t.Errorf("complete: %+v", done.style)
	}
	if !sameStyle(cut.style, mid) {
		t.Errorf("cancel moved the target: %+v", cut.style)
	}

	applies := cut.applies
	s2.Observe(above)
	s2.Observe(below)
	s2.Tick(1)
	if cut.applies != applies {
		t.Error("disposed scope still drives targets")
	}
	if err := s2.Reveal(fadeUp(Once), newBox()); !errors.Is(err, ErrDisposed) {
		t.Errorf("reveal after dispose: %v", err)
	}
	s2.Dispose(true)
}

func TestRegistryUnmountLeavesNoObservers(t *testing.T) {
	r := NewRegistry()
	s := r.Mount("services")
	s.Reveal(fadeUp(Reversible), newBox(), newBox())
	r.Mount("hero").Reveal(fadeUp(Once), newBox())
	if r.Observers() != 3 {
		t.Fatalf("observers = %d", r.Observers())
	}

	r.Unmount("services")
	r.Unmount("hero")
	if r.Observers() != 0 || r.Mounted() != 0 {
		t.Fatalf("left %d observers in %d scopes", r.Observers(), r.Mounted())
	}
	r.Unmount("never-mounted")
}

func TestRegistryRemountDoesNotDuplicate(t *testing.T) {
	r := NewRegistry()
	b := newBox()
	first := r.Mount("gallery")
	first.Reveal(fadeUp(Reversible), b)

	second := r.Mount("gallery")
	second.Reveal(fadeUp(Reversible), b)
	if r.Observers() != 1 || r.Mounted() != 1 {
		t.Fatalf("observers=%d mounted=%d after remount", r.Observers(), r.Mounted())
	}
	if err := first.Reveal(fadeUp(Once), b); !errors.Is(err, ErrDisposed) {
		t.Errorf("old scope still live: %v", err)
	}

	// disposing the stale scope must not drop the new one
	first.Dispose(true)
	if r.Mounted() != 1 {
		t.Fatal("stale dispose removed the live scope")
	}

	applies := b.applies
	r.Observe(below)
	r.Tick(1)
	// one apply per tick from the single live entry
	if b.applies != applies+1 {
		t.Errorf("applies went %d -> %d", applies, b.applies)
	}
	second.Dispose(false)
	if r.Mounted() != 0 {
		t.Fatal("dispose did not unregister")
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s := r.Mount("page")
				s.Reveal(fadeUp(Reversible), newBox())
				r.Observe(below)
				r.Tick(0.016)
				r.Observe(above)
			}
		}()
	}
	wg.Wait()
	r.Unmount("page")
	if r.Observers() != 0 {
		t.Fatalf("observers = %d", r.Observers())
	}
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	home, ok := m.Page("home")
	if !ok || len(home) == 0 {
		t.Fatal("home page missing")
	}
	byName := map[string]Section{}
	for _, s := range home {
		byName[s.Name] = s
	}

	hero := byName["hero"]
	if hero.Policy != Once || hero.Duration != 1.2 || hero.Start != "top 85%" {
		t.Errorf("hero = %+v", hero.Spec)
	}
	cards := byName["services-highlight"]
	if cards.Policy != Reversible || cards.From[Scale] != 0.96 || cards.Stagger != 0.08 {
		t.Errorf("services-highlight = %+v", cards.Spec)
	}
	if cards.Duration != DefaultDuration || cards.Ease != DefaultEase {
		t.Errorf("defaults not applied: %+v", cards.Spec)
	}

	names := m.PageNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("unsorted %v", names)
		}
	}
	if _, ok := m.Page("nope"); ok {
		t.Error("unknown page found")
	}
}

func TestParseManifestRejectsBadSection(t *testing.T) {
	raw := []byte("pages:\n  home:\n    - section: x\n      ease: wobbly\n")
	if _, err := ParseManifest(raw); err == nil {
		t.Fatal("bad ease accepted")
	}
}
