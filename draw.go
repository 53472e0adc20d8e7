package impulse

//Draw flags
const (
	DRAW_SHAPES           = 1 << 0
	DRAW_JOINTS           = 1 << 1
	DRAW_COLLISION_POINTS = 1 << 2
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// Drawer receives world space primitives from DrawSpace.
type Drawer interface {
	DrawCircle(pos Vector, angle, radius float64, outline, fill FColor)
	DrawSegment(a, b Vector, fill FColor)
	DrawFatSegment(a, b Vector, radius float64, outline, fill FColor)
	DrawPolygon(verts []Vector, outline, fill FColor)
	DrawDot(size float64, pos Vector, fill FColor)

	Flags() int
	OutlineColor() FColor
	ShapeColor(body *Body, shape *Shape) FColor
	JointColor() FColor
	CollisionPointColor() FColor
}

func DrawShape(body *Body, shape *Shape, options Drawer) {
	outline := options.OutlineColor()
	fill := options.ShapeColor(body, shape)

	switch class := shape.Class.(type) {
	case *Circle:
		options.DrawCircle(class.tc, body.a, class.r, outline, fill)
	case *Segment:
		options.DrawFatSegment(class.ta, class.tb, class.r, outline, fill)
	case *PolyShape:
		options.DrawPolygon(class.tverts, outline, fill)
	}
}

// DrawJoint draws a line between the two anchors with a dot on each.
func DrawJoint(joint *Joint, options Drawer) {
	color := options.JointColor()
	a, b := joint.Anchors()

	switch joint.kind {
	case JOINT_ANGLE:
		options.DrawSegment(joint.a.p, joint.b.p, color)
	default:
		options.DrawDot(5, a, color)
		options.DrawDot(5, b, color)
		options.DrawSegment(a, b, color)
	}
}

func DrawSpace(space *Space, options Drawer) {
	if options.Flags()&DRAW_SHAPES != 0 {
		for _, body := range space.Bodies() {
			for _, shape := range body.shapeList {
				DrawShape(body, shape, options)
			}
		}
	}

	if options.Flags()&DRAW_JOINTS != 0 {
		for _, joint := range space.Joints() {
			DrawJoint(joint, options)
		}
	}

	if options.Flags()&DRAW_COLLISION_POINTS != 0 {
		color := options.CollisionPointColor()
		for _, cs := range space.contacts.solvers {
			for _, con := range cs.contacts {
				n := con.Normal
				options.DrawSegment(con.Point.Add(n.Mult(-0.1)), con.Point.Add(n.Mult(0.1)), color)
			}
		}
	}
}
