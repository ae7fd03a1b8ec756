// Package geom provides the oriented-box primitive used by every solver in
// keelwright: face, vertex and edge accessors plus the small set of
// bounding-volume helpers the adjacency and placement code is built on.
package geom

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
)

// Face identifies one of the six faces of an oriented box by its local
// outward axis. Face f and f.Opposite() always point in opposite directions.
type Face uint8

const (
	FaceRight  Face = iota // +X
	FaceTop                // +Y
	FaceFront              // +Z
	FaceLeft               // -X
	FaceBottom             // -Y
	FaceBack               // -Z
)

// Faces lists all faces in index order.
var Faces = [6]Face{FaceRight, FaceTop, FaceFront, FaceLeft, FaceBottom, FaceBack}

var faceNames = [6]string{"right", "top", "front", "left", "bottom", "back"}

// localAxes holds the unit local normal of each face.
var localAxes = [6]math32.Vector3{
	{X: 1}, {Y: 1}, {Z: 1},
	{X: -1}, {Y: -1}, {Z: -1},
}

func (f Face) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return fmt.Sprintf("Face(%d)", uint8(f))
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f < 6
}

// Opposite returns the face on the other side of the box.
func (f Face) Opposite() Face {
	return (f + 3) % 6
}

// Local returns the unit normal of f in box space.
func (f Face) Local() math32.Vector3 {
	return localAxes[f]
}

// component returns 0, 1 or 2 for the X, Y or Z axis of f.
func (f Face) component() int {
	return int(f % 3)
}

// ParseFace converts a face name ("front", "left", ...) or a signed axis
// ("+x", "-z") to a Face.
func ParseFace(name string) (Face, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, fn := range faceNames {
		if n == fn {
			return Face(i), nil
		}
	}
	switch n {
	case "+x", "x":
		return FaceRight, nil
	case "+y", "y", "up":
		return FaceTop, nil
	case "+z", "z":
		return FaceFront, nil
	case "-x":
		return FaceLeft, nil
	case "-y", "down":
		return FaceBottom, nil
	case "-z":
		return FaceBack, nil
	}
	return 0, fmt.Errorf("invalid face %q, expected right/top/front/left/bottom/back or a signed axis", name)
}
