package snapshot

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// painter fills anti-aliased shapes onto dst, one path at a time.
type painter struct {
	dst draw.Image
	z   *vector.Rasterizer
}

// line fills a quad of the given width centered on the segment a-b.
func (p *painter) line(a, b mgl32.Vec2, width float32, c color.Color) {
	d := b.Sub(a)
	if d.Len() < 1e-3 {
		p.square(a, width, c)
		return
	}
	n := mgl32.Vec2{-d[1], d[0]}.Normalize().Mul(width * 0.5)

	p.begin()
	p.z.MoveTo(a[0]+n[0], a[1]+n[1])
	p.z.LineTo(b[0]+n[0], b[1]+n[1])
	p.z.LineTo(b[0]-n[0], b[1]-n[1])
	p.z.LineTo(a[0]-n[0], a[1]-n[1])
	p.z.ClosePath()
	p.fill(c)
}

// square fills an axis-aligned square of side size centered on center.
func (p *painter) square(center mgl32.Vec2, size float32, c color.Color) {
	h := size * 0.5
	p.begin()
	p.z.MoveTo(center[0]-h, center[1]-h)
	p.z.LineTo(center[0]+h, center[1]-h)
	p.z.LineTo(center[0]+h, center[1]+h)
	p.z.LineTo(center[0]-h, center[1]+h)
	p.z.ClosePath()
	p.fill(c)
}

func (p *painter) begin() {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
}

func (p *painter) fill(c color.Color) {
	p.z.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{})
}
