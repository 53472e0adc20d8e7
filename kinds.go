package impulse

import (
	"fmt"
	"math"
)

const INFINITY = math.MaxFloat64

type BodyType int

// body types
const (
	BODY_DISABLED BodyType = iota
	BODY_STATIC
	BODY_KINEMATIC
	BODY_DYNAMIC
	BODY_TYPE_NUM
)

var bodyTypeNames = [BODY_TYPE_NUM]string{"disabled", "static", "kinematic", "dynamic"}

func (t BodyType) String() string {
	if t < 0 || t >= BODY_TYPE_NUM {
		return fmt.Sprintf("BodyType(%d)", int(t))
	}
	return bodyTypeNames[t]
}

func (t BodyType) MarshalText() ([]byte, error) {
	if t < 0 || t >= BODY_TYPE_NUM {
		return nil, fmt.Errorf("invalid body type %d", int(t))
	}
	return []byte(bodyTypeNames[t]), nil
}

func (t *BodyType) UnmarshalText(text []byte) error {
	for i, name := range bodyTypeNames {
		if name == string(text) {
			*t = BodyType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown body type %q", text)
}

type ShapeType int

// Shape Class
const (
	SHAPE_CIRCLE ShapeType = iota
	SHAPE_SEGMENT
	SHAPE_POLY
	SHAPE_TYPE_NUM
)

var shapeTypeNames = [SHAPE_TYPE_NUM]string{"circle", "segment", "polygon"}

func (t ShapeType) String() string {
	if t < 0 || t >= SHAPE_TYPE_NUM {
		return fmt.Sprintf("ShapeType(%d)", int(t))
	}
	return shapeTypeNames[t]
}

func (t ShapeType) MarshalText() ([]byte, error) {
	if t < 0 || t >= SHAPE_TYPE_NUM {
		return nil, fmt.Errorf("invalid shape type %d", int(t))
	}
	return []byte(shapeTypeNames[t]), nil
}

func (t *ShapeType) UnmarshalText(text []byte) error {
	for i, name := range shapeTypeNames {
		if name == string(text) {
			*t = ShapeType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape type %q", text)
}

type JointType int

const (
	JOINT_ANGLE JointType = iota
	JOINT_REVOLUTE
	JOINT_WELD
	JOINT_WHEEL
	JOINT_PRISMATIC
	JOINT_DISTANCE
	JOINT_ROPE
	JOINT_MOUSE
	JOINT_TYPE_NUM
)

var jointTypeNames = [JOINT_TYPE_NUM]string{"angle", "revolute", "weld", "wheel", "prismatic", "distance", "rope", "mouse"}

func (t JointType) String() string {
	if t < 0 || t >= JOINT_TYPE_NUM {
		return fmt.Sprintf("JointType(%d)", int(t))
	}
	return jointTypeNames[t]
}

func (t JointType) MarshalText() ([]byte, error) {
	if t < 0 || t >= JOINT_TYPE_NUM {
		return nil, fmt.Errorf("invalid joint type %d", int(t))
	}
	return []byte(jointTypeNames[t]), nil
}

func (t *JointType) UnmarshalText(text []byte) error {
	for i, name := range jointTypeNames {
		if name == string(text) {
			*t = JointType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown joint type %q", text)
}
