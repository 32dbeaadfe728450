package systems

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"
)

// ObstacleKind distinguishes rock circles from wall segments.
type ObstacleKind uint8

const (
	ObstacleRock ObstacleKind = iota
	ObstacleWall
)

// Obstacle is a static shape in the tank.
type Obstacle struct {
	Kind   ObstacleKind
	Center r2.Vec  // rocks
	Radius float64 // rocks
	A, B   r2.Vec  // walls
	Normal r2.Vec  // walls: unit, facing the water side

	rect *rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (o *Obstacle) Bounds() *rtreego.Rect {
	return o.rect
}

// ObstacleField indexes static obstacles in an R-tree and answers ray and
// overlap queries. The four tank walls are always present.
type ObstacleField struct {
	tree      *rtreego.Rtree
	obstacles []*Obstacle
	width     float64
	height    float64
}

// NewObstacleField creates a field bounded by walls on all four sides.
func NewObstacleField(width, height float64) *ObstacleField {
	f := &ObstacleField{
		tree:   rtreego.NewTree(2, 4, 16),
		width:  width,
		height: height,
	}

	corners := []r2.Vec{{X: 0, Y: 0}, {X: width, Y: 0}, {X: width, Y: height}, {X: 0, Y: height}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		// Winding is counter-clockwise, so the inward normal is the left perpendicular
		edge := unitOrZero(r2.Sub(b, a))
		normal := r2.Vec{X: -edge.Y, Y: edge.X}
		f.addWall(a, b, normal)
	}
	return f
}

// Width returns the tank width.
func (f *ObstacleField) Width() float64 { return f.width }

// Height returns the tank height.
func (f *ObstacleField) Height() float64 { return f.height }

// AddRock adds a circular obstacle.
func (f *ObstacleField) AddRock(center r2.Vec, radius float64) error {
	if radius <= 0 {
		return fmt.Errorf("rock radius must be positive, got %v", radius)
	}
	rect, err := rtreego.NewRect(rtreego.Point{center.X - radius, center.Y - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return fmt.Errorf("rock bounds: %w", err)
	}
	o := &Obstacle{Kind: ObstacleRock, Center: center, Radius: radius, rect: rect}
	f.obstacles = append(f.obstacles, o)
	f.tree.Insert(o)
	return nil
}

// addWall inserts a segment. Tank walls are axis-aligned so one extent is padded.
func (f *ObstacleField) addWall(a, b, normal r2.Vec) {
	rect := segmentBounds(a, b, 0.01)
	o := &Obstacle{Kind: ObstacleWall, A: a, B: b, Normal: normal, rect: rect}
	f.obstacles = append(f.obstacles, o)
	f.tree.Insert(o)
}

// Obstacles returns every obstacle, walls first.
func (f *ObstacleField) Obstacles() []*Obstacle {
	return f.obstacles
}

// Rocks returns only the circular obstacles.
func (f *ObstacleField) Rocks() []*Obstacle {
	var rocks []*Obstacle
	for _, o := range f.obstacles {
		if o.Kind == ObstacleRock {
			rocks = append(rocks, o)
		}
	}
	return rocks
}

// segmentBounds returns the padded bounding box of a segment.
func segmentBounds(a, b r2.Vec, pad float64) *rtreego.Rect {
	minX, maxX := math.Min(a.X, b.X)-pad, math.Max(a.X, b.X)+pad
	minY, maxY := math.Min(a.Y, b.Y)-pad, math.Max(a.Y, b.Y)+pad
	// Lengths are strictly positive because of the padding
	rect, _ := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{maxX - minX, maxY - minY})
	return rect
}

// Raycast implements Raycaster.
func (f *ObstacleField) Raycast(origin, dir r2.Vec, maxDist float64) (RayHit, bool) {
	end := r2.Add(origin, r2.Scale(maxDist, dir))
	candidates := f.tree.SearchIntersect(segmentBounds(origin, end, 0.01))

	var best RayHit
	found := false
	for _, s := range candidates {
		o := s.(*Obstacle)
		var hit RayHit
		var ok bool
		switch o.Kind {
		case ObstacleRock:
			hit, ok = rayCircle(origin, dir, maxDist, o.Center, o.Radius)
		case ObstacleWall:
			hit, ok = raySegment(origin, dir, maxDist, o.A, o.B, o.Normal)
		}
		if ok && (!found || hit.Distance < best.Distance) {
			best = hit
			found = true
		}
	}
	return best, found
}

// Resolve pushes a circle out of every obstacle it overlaps.
// Returns the corrected position, the last contact normal and whether any
// contact happened.
func (f *ObstacleField) Resolve(pos r2.Vec, radius float64) (r2.Vec, r2.Vec, bool) {
	rect, err := rtreego.NewRect(rtreego.Point{pos.X - radius, pos.Y - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return pos, r2.Vec{}, false
	}

	var normal r2.Vec
	touched := false
	for _, s := range f.tree.SearchIntersect(rect) {
		o := s.(*Obstacle)
		switch o.Kind {
		case ObstacleRock:
			d := r2.Sub(pos, o.Center)
			dist := r2.Norm(d)
			minDist := o.Radius + radius
			if dist >= minDist {
				continue
			}
			n := unitOrZero(d)
			if n == (r2.Vec{}) {
				n = r2.Vec{X: 1}
			}
			pos = r2.Add(o.Center, r2.Scale(minDist, n))
			normal = n
			touched = true
		case ObstacleWall:
			depth := r2.Dot(r2.Sub(pos, o.A), o.Normal)
			if depth >= radius {
				continue
			}
			pos = r2.Add(pos, r2.Scale(radius-depth, o.Normal))
			normal = o.Normal
			touched = true
		}
	}
	return pos, normal, touched
}

// Blocked reports whether a circle at pos overlaps any obstacle.
func (f *ObstacleField) Blocked(pos r2.Vec, radius float64) bool {
	_, _, hit := f.Resolve(pos, radius)
	return hit
}

// rayCircle intersects a ray with a circle. A ray starting inside the circle
// hits at distance 0 with the outward normal.
func rayCircle(origin, dir r2.Vec, maxDist float64, c r2.Vec, radius float64) (RayHit, bool) {
	oc := r2.Sub(origin, c)
	cc := r2.Norm2(oc) - radius*radius
	if cc <= 0 {
		n := unitOrZero(oc)
		return RayHit{Distance: 0, Point: origin, Normal: n}, true
	}
	b := r2.Dot(oc, dir)
	disc := b*b - cc
	if disc < 0 || b > 0 {
		return RayHit{}, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxDist {
		return RayHit{}, false
	}
	p := r2.Add(origin, r2.Scale(t, dir))
	return RayHit{Distance: t, Point: p, Normal: unitOrZero(r2.Sub(p, c))}, true
}

// raySegment intersects a ray with a one-sided wall segment.
func raySegment(origin, dir r2.Vec, maxDist float64, a, b, normal r2.Vec) (RayHit, bool) {
	// Rays travelling away from the water side never hit
	denom := r2.Dot(dir, normal)
	if denom >= 0 {
		return RayHit{}, false
	}
	t := r2.Dot(r2.Sub(a, origin), normal) / denom
	if t < 0 {
		// Origin already behind the wall
		t = 0
	}
	if t > maxDist {
		return RayHit{}, false
	}
	p := r2.Add(origin, r2.Scale(t, dir))

	// Within segment extent
	ab := r2.Sub(b, a)
	s := r2.Dot(r2.Sub(p, a), ab) / r2.Norm2(ab)
	if s < 0 || s > 1 {
		return RayHit{}, false
	}
	return RayHit{Distance: t, Point: p, Normal: normal}, true
}
