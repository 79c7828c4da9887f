package grove

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	moteRadius     = 0.08
	moteOpacity    = 0.8
	moteMinOpacity = 0.3
	moteHeight     = 8
	moteBaseY      = 1
	moteBob        = 0.5
	// moteClock converts elapsed milliseconds into animation time.
	moteClock = 0.002
)

var moteColor = RGB(0xffff88)

// mote holds one light mote's fixed orbit parameters. They are drawn at
// creation and never change.
type mote struct {
	node           *Node
	originX        float64
	originZ        float64
	baseY          float64
	angle          float64
	speed          float64
	radius         float64
	verticalSpeed  float64
	verticalOffset float64
}

// MoteField animates the night-time light motes. Each mote circles its
// origin and bobs vertically with its own phase, and all of them pulse in
// opacity.
type MoteField struct {
	group *Node
	motes []mote
}

// newMoteField creates cfg.Count motes under a new "motes" container. The
// sphere geometry is shared by every mote and owned by s.
func newMoteField(s *SceneGraph, cfg MoteConfig, r *rand.Rand) *MoteField {
	f := &MoteField{group: NewContainer("motes"), motes: make([]mote, cfg.Count)}
	f.group.Pickable = false
	if cfg.Count == 0 {
		return f
	}
	geo := s.OwnGeometry(NewSphere(moteRadius, 6, 4))
	start := -cfg.Spread / 10
	for i := range f.motes {
		mat := &Material{Color: moteColor, Opacity: moteOpacity, Unlit: true}
		n := NewMesh("mote", geo, mat)
		n.RenderLayer = LayerOverlay
		m := mote{
			node:           n,
			originX:        r.Float64()*cfg.Spread + start,
			originZ:        r.Float64()*cfg.Spread + start,
			baseY:          r.Float64()*moteHeight + moteBaseY,
			angle:          r.Float64() * 2 * math.Pi,
			speed:          0.01 + r.Float64()*0.02,
			radius:         0.5 + r.Float64()*1.5,
			verticalSpeed:  0.004 + r.Float64()*0.006,
			verticalOffset: r.Float64() * 2 * math.Pi,
		}
		n.SetPosition(m.originX, m.baseY, m.originZ)
		f.motes[i] = m
		f.group.AddChild(n)
	}
	return f
}

// Node returns the container holding the motes.
func (f *MoteField) Node() *Node {
	return f.group
}

// Len returns the number of motes.
func (f *MoteField) Len() int {
	return len(f.motes)
}

// Update advances every mote by one frame. now is the elapsed host clock.
func (f *MoteField) Update(now time.Duration) {
	t := float64(now.Milliseconds()) * moteClock
	for i := range f.motes {
		m := &f.motes[i]
		m.angle += m.speed
		m.node.SetPosition(
			m.originX+math.Cos(m.angle)*m.radius,
			m.baseY+math.Sin(t*m.verticalSpeed+m.verticalOffset)*moteBob,
			m.originZ+math.Sin(m.angle)*m.radius,
		)
		m.node.Material.Opacity = math.Max(moteMinOpacity, 0.6+math.Sin(t*2+float64(i))*0.3)
	}
}
