// Motiondemo draws a few boxes animated by the engine in an ebiten window.
// Click to spring the boxes toward the cursor; they keep the velocity they
// already had. Space toggles a color cycle and R replays the entrance.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/engine"
	"github.com/go-drift/motion/pkg/spring"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

const (
	windowTitle = "motion demo"
	screenW     = 800
	screenH     = 480
	boxSize     = 64
)

var elements = []animation.ElementID{"a", "b", "c", "d", "e"}

// box is the drawable state of one element.
type box struct {
	x, y    float64
	opacity float64
	scale   float64
	rotate  float64
	fill    value.Color
}

// board is the surface the engine writes to.
type board struct {
	boxes map[animation.ElementID]*box
}

func newBoard() *board {
	b := &board{boxes: make(map[animation.ElementID]*box)}
	for i, el := range elements {
		b.boxes[el] = &box{
			x:     restX(i),
			y:     screenH / 2,
			scale: 1,
			fill:  value.RGBA(70, 130, 180, 1),
		}
	}
	return b
}

func restX(i int) float64 {
	return float64(screenW) / float64(len(elements)+1) * float64(i+1)
}

func (b *board) Supports(property string) bool { return surface.Standard.Supports(property) }

func (b *board) Apply(el animation.ElementID, property string, v value.Value) {
	bx, ok := b.boxes[el]
	if !ok {
		return
	}
	if c, ok := v.(value.Color); ok {
		bx.fill = c
		return
	}
	x, ok := value.Scalar(v)
	if !ok {
		return
	}
	switch property {
	case "x":
		bx.x = x
	case "y":
		bx.y = x
	case "opacity":
		bx.opacity = x
	case "scale":
		bx.scale = x
	case "rotate":
		if a, ok := v.(value.Angle); ok {
			x = a.Deg()
		}
		bx.rotate = x * math.Pi / 180
	}
}

type demo struct {
	eng    *engine.Engine
	board  *board
	frame  func(now time.Time)
	pixel  *ebiten.Image
	cycles []animation.Handle
}

func newDemo() *demo {
	d := &demo{board: newBoard()}
	d.eng = engine.New(
		engine.WithSurface(d.board),
		engine.WithFrameRequester(engine.FrameRequesterFunc(func(fn func(time.Time)) { d.frame = fn })),
		engine.WithColorSpace(value.SpaceLab),
	)
	return d
}

func (d *demo) enter() {
	ds := make([]animation.Descriptor, len(elements))
	for i, el := range elements {
		ds[i] = animation.Descriptor{
			Element: el,
			From: value.Target{
				"opacity": value.Number(0),
				"y":       value.Pixels(screenH + boxSize),
				"rotate":  value.Degrees(-90),
				"x":       value.Pixels(restX(i)),
			},
			To: value.Target{
				"opacity": value.Number(1),
				"y":       value.Pixels(screenH / 2),
				"rotate":  value.Degrees(0),
				"x":       value.Pixels(restX(i)),
			},
			Transition: animation.Transition{
				Duration: 700 * time.Millisecond,
				Ease:     easing.BackOut,
				Stagger:  &animation.Stagger{Delay: 80 * time.Millisecond, From: animation.StaggerCenter},
			},
		}
	}
	if _, err := d.eng.AnimateAll(ds); err != nil {
		log.Printf("motiondemo: enter: %v", err)
	}
}

func (d *demo) follow(x, y float64) {
	bouncy, _ := spring.Preset("bouncy")
	for i, el := range elements {
		offset := (float64(i) - float64(len(elements)-1)/2) * (boxSize + 8)
		if _, err := d.eng.Animate(animation.Descriptor{
			Element:    el,
			From:       value.Target{"x": d.current(el, "x"), "y": d.current(el, "y")},
			To:         value.Target{"x": value.Pixels(x + offset), "y": value.Pixels(y)},
			Transition: animation.Transition{Spring: &bouncy},
		}); err != nil {
			log.Printf("motiondemo: follow: %v", err)
		}
	}
}

func (d *demo) current(el animation.ElementID, prop string) value.Value {
	if mv, ok := d.eng.Lookup(el, prop); ok {
		return mv.Get()
	}
	return value.Pixels(0)
}

func (d *demo) toggleCycle() {
	if len(d.cycles) > 0 {
		for _, h := range d.cycles {
			_ = d.eng.Interrupt(h)
		}
		d.cycles = nil
		return
	}
	for i, el := range elements {
		h, err := d.eng.Animate(animation.Descriptor{
			Element: el,
			From:    value.Target{"backgroundColor": value.RGBA(70, 130, 180, 1)},
			To:      value.Target{"backgroundColor": value.RGBA(255, 99, 71, 1)},
			Transition: animation.Transition{
				Duration: time.Second,
				Delay:    time.Duration(i) * 120 * time.Millisecond,
				Ease:     easing.SineInOut,
				Repeat:   animation.ForeverAlternating,
			},
		})
		if err != nil {
			log.Printf("motiondemo: cycle: %v", err)
			continue
		}
		d.cycles = append(d.cycles, h)
	}
}

func (d *demo) Update() error {
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		mx, my := ebiten.CursorPosition()
		d.follow(float64(mx), float64(my))
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		d.toggleCycle()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		d.enter()
	}

	if fn := d.frame; fn != nil {
		d.frame = nil
		fn(time.Now())
	}
	return nil
}

func (d *demo) Draw(screen *ebiten.Image) {
	if d.pixel == nil {
		d.pixel = ebiten.NewImage(1, 1)
		d.pixel.Fill(color.White)
	}
	screen.Fill(color.RGBA{R: 16, G: 18, B: 24, A: 255})
	var op ebiten.DrawImageOptions
	for _, el := range elements {
		bx := d.board.boxes[el]
		size := boxSize * bx.scale
		op.GeoM.Reset()
		op.GeoM.Scale(size, size)
		op.GeoM.Translate(-size/2, -size/2)
		op.GeoM.Rotate(bx.rotate)
		op.GeoM.Translate(bx.x, bx.y)

		c := bx.fill.Clamped()
		a := float32(bx.opacity * bx.fill.A)
		op.ColorScale.Reset()
		op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
		screen.DrawImage(d.pixel, &op)
	}
	stats := d.eng.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.0f  active %d  slow frames %d\nclick: follow  space: colors  r: replay",
		ebiten.ActualTPS(), d.eng.Active(), stats.SlowFrames))
}

func (d *demo) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	d := newDemo()
	d.enter()

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(d); err != nil {
		log.Fatal(err)
	}
}
