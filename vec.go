package strokemesh

import "github.com/gogpu/strokemesh/internal/geom"

// Vec2 is a 2D point or displacement.
type Vec2 = geom.Vec2

// Vec3 is a homogeneous point or a line equation a*x + b*y + c.
type Vec3 = geom.Vec3

// V2 returns the vector (x, y).
func V2(x, y float64) Vec2 { return geom.V2(x, y) }

// V3 returns the vector (x, y, z).
func V3(x, y, z float64) Vec3 { return geom.V3(x, y, z) }
