package core

import "testing"

type recLayer struct {
	name    string
	handles bool
	log     *[]string
}

func (l *recLayer) OnAttach(*Engine)          { *l.log = append(*l.log, "attach "+l.name) }
func (l *recLayer) OnDetach(*Engine)          { *l.log = append(*l.log, "detach "+l.name) }
func (l *recLayer) OnUpdate(*Engine, float64) {}
func (l *recLayer) OnRender(*Engine, float64) { *l.log = append(*l.log, "render "+l.name) }
func (l *recLayer) OnEvent(*Engine, Event) bool {
	*l.log = append(*l.log, "event "+l.name)
	return l.handles
}

func TestDispatch_TopDownUntilHandled(t *testing.T) {
	var log []string
	e := &Engine{Input: NewInput()}
	e.Layers.Push(e, &recLayer{name: "map", log: &log})
	e.Layers.Push(e, &recLayer{name: "minimap", handles: true, log: &log})
	e.Layers.Push(e, &recLayer{name: "hud", log: &log})
	log = log[:0]

	e.Dispatch(EventMouseMove{X: 1, Y: 2})
	want := []string{"event hud", "event minimap"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}

	log = log[:0]
	e.Layers.ForEach(func(l Layer) { l.OnRender(e, 0) })
	if len(log) != 3 || log[0] != "render map" || log[2] != "render hud" {
		t.Fatalf("render order %v", log)
	}
}

func TestLayerStack_PopDetaches(t *testing.T) {
	var log []string
	e := &Engine{}
	e.Layers.Push(e, &recLayer{name: "a", log: &log})
	if _, ok := e.Layers.Pop(e); !ok {
		t.Fatal("Pop on non-empty stack failed")
	}
	if log[len(log)-1] != "detach a" {
		t.Fatalf("log = %v", log)
	}
	if _, ok := e.Layers.Pop(e); ok {
		t.Fatal("Pop on empty stack succeeded")
	}
}

func TestInput_TracksPointerAndFocusLoss(t *testing.T) {
	in := NewInput()
	in.Handle(EventKey{Key: KeyW, Down: true})
	in.Handle(EventMouseButton{Button: MouseLeft, Down: true, X: 10, Y: 20})
	if !in.IsKeyDown(KeyW) || !in.IsButtonDown(MouseLeft) {
		t.Fatal("key/button not tracked")
	}
	if x, y := in.Mouse(); x != 10 || y != 20 {
		t.Fatalf("mouse = (%v,%v)", x, y)
	}
	in.Handle(EventCursorEnter{Entered: false})
	if in.CursorInside() {
		t.Fatal("cursor still inside after leave")
	}
	in.Handle(EventFocus{Focused: false})
	if in.IsKeyDown(KeyW) || in.IsButtonDown(MouseLeft) {
		t.Fatal("state survived focus loss")
	}
}
