package impulse

// PIXELS_PER_METER scales body positions before they reach a VisualProxy.
const PIXELS_PER_METER = 50

// VisualProxy receives a body's pose once per step, in pixels and degrees.
type VisualProxy interface {
	SetPosition(x, y float64)
	SetRotation(degrees float64)
}

// VisualProxyFunc adapts a plain function to VisualProxy. Rotation is delivered with the position.
type VisualProxyFunc func(x, y, degrees float64)

type funcProxy struct {
	f    VisualProxyFunc
	x, y float64
}

func (p *funcProxy) SetPosition(x, y float64) {
	p.x, p.y = x, y
}

func (p *funcProxy) SetRotation(degrees float64) {
	p.f(p.x, p.y, degrees)
}

func NewVisualProxy(f VisualProxyFunc) VisualProxy {
	return &funcProxy{f: f}
}
