package surface

import (
	"testing"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/value"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Apply("a", "x", value.Pixels(1))
	r.Apply("a", "x", value.Pixels(2))
	r.Apply("b", "opacity", value.Number(0.5))
	r.Flush()

	if v, ok := r.Last("a", "x"); !ok || !value.Equal(v, value.Pixels(2)) {
		t.Errorf("Last(a, x) = %v, %v", v, ok)
	}
	if _, ok := r.Last("c", "x"); ok {
		t.Error("Last(c, x) reported a value")
	}
	if n := len(r.Writes()); n != 3 {
		t.Errorf("len(Writes()) = %d, want 3", n)
	}
	if r.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", r.Frames())
	}
	r.Reset()
	if len(r.Writes()) != 0 || r.Frames() != 0 {
		t.Error("Reset did not clear the recorder")
	}
}

func TestRecorderProperties(t *testing.T) {
	r := NewRecorder()
	if !r.Supports("opacity") || r.Supports("filter") {
		t.Error("default recorder should support exactly the Standard set")
	}
	r.Properties = NewPropertySet("filter")
	if r.Supports("opacity") || !r.Supports("filter") {
		t.Error("Properties override ignored")
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	b.Properties = NewPropertySet("x")
	m := Multi{a, b}

	if !m.Supports("x") || m.Supports("opacity") {
		t.Error("Multi.Supports should require every surface")
	}
	if (Multi{}).Supports("x") {
		t.Error("empty Multi should support nothing")
	}
	m.Apply("el", "x", value.Pixels(3))
	m.Flush()
	for i, r := range []*Recorder{a, b} {
		if _, ok := r.Last("el", "x"); !ok || r.Frames() != 1 {
			t.Errorf("surface %d missed the write or flush", i)
		}
	}
}

func TestFunc(t *testing.T) {
	var got []string
	f := Func(func(el animation.ElementID, property string, v value.Value) {
		got = append(got, string(el)+"."+property+"="+v.String())
	})
	f.Apply("box", "x", value.Pixels(4))
	if len(got) != 1 || got[0] != "box.x=4px" {
		t.Errorf("got %v", got)
	}
	if !f.Supports("transform") {
		t.Error("Func should support the Standard properties")
	}
}

func TestPropertySetNames(t *testing.T) {
	s := NewPropertySet("b", "a")
	if n := s.Names(); len(n) != 2 || n[0] != "a" || n[1] != "b" {
		t.Errorf("Names() = %v", n)
	}
}
