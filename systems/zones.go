package systems

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// Zone is an axis-aligned rectangle of dirty water.
type Zone struct {
	Min, Max r2.Vec
	rect     *rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (z *Zone) Bounds() *rtreego.Rect { return z.rect }

// Contains reports whether p lies inside the zone.
func (z *Zone) Contains(p r2.Vec) bool {
	return p.X >= z.Min.X && p.X <= z.Max.X && p.Y >= z.Min.Y && p.Y <= z.Max.Y
}

// Star is a collectible point.
type Star struct {
	ID    int
	Pos   r2.Vec
	Value int
	rect  *rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (s *Star) Bounds() *rtreego.Rect { return s.rect }

// ZoneIndex holds dirty-water zones and uncollected stars.
type ZoneIndex struct {
	dirty  *rtreego.Rtree
	stars  *rtreego.Rtree
	zones  []*Zone
	live   map[int]*Star
	nextID int
}

// NewZoneIndex creates an empty index.
func NewZoneIndex() *ZoneIndex {
	return &ZoneIndex{
		dirty: rtreego.NewTree(2, 2, 8),
		stars: rtreego.NewTree(2, 2, 8),
		live:  make(map[int]*Star),
	}
}

// AddDirtyWater adds a zone with its lower corner at min.
func (z *ZoneIndex) AddDirtyWater(min r2.Vec, width, height float64) error {
	rect, err := rtreego.NewRect(rtreego.Point{min.X, min.Y}, []float64{width, height})
	if err != nil {
		return fmt.Errorf("dirty water zone: %w", err)
	}
	zone := &Zone{Min: min, Max: r2.Vec{X: min.X + width, Y: min.Y + height}, rect: rect}
	z.zones = append(z.zones, zone)
	z.dirty.Insert(zone)
	return nil
}

// AddStar places a star and returns its id.
func (z *ZoneIndex) AddStar(pos r2.Vec, value int) (int, error) {
	rect, err := rtreego.NewRect(rtreego.Point{pos.X, pos.Y}, []float64{1e-6, 1e-6})
	if err != nil {
		return 0, fmt.Errorf("star: %w", err)
	}
	z.nextID++
	s := &Star{ID: z.nextID, Pos: pos, Value: value, rect: rect}
	z.live[s.ID] = s
	z.stars.Insert(s)
	return s.ID, nil
}

// InDirtyWater reports whether p is inside any dirty-water zone.
func (z *ZoneIndex) InDirtyWater(p r2.Vec) bool {
	probe, err := rtreego.NewRect(rtreego.Point{p.X, p.Y}, []float64{1e-6, 1e-6})
	if err != nil {
		return false
	}
	for _, s := range z.dirty.SearchIntersect(probe) {
		if s.(*Zone).Contains(p) {
			return true
		}
	}
	return false
}

// CollectStars removes and returns every star within radius of p.
func (z *ZoneIndex) CollectStars(p r2.Vec, radius float64) []Star {
	if radius <= 0 {
		return nil
	}
	box, err := rtreego.NewRect(rtreego.Point{p.X - radius, p.Y - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return nil
	}
	var got []Star
	for _, s := range z.stars.SearchIntersect(box) {
		star := s.(*Star)
		if distanceSq(star.Pos, p) > radius*radius {
			continue
		}
		got = append(got, *star)
	}
	for i := range got {
		star := z.live[got[i].ID]
		z.stars.Delete(star)
		delete(z.live, star.ID)
	}
	return got
}

// Zones returns the dirty-water zones.
func (z *ZoneIndex) Zones() []*Zone {
	return z.zones
}

// Stars returns the uncollected stars in id order.
func (z *ZoneIndex) Stars() []*Star {
	out := make([]*Star, 0, len(z.live))
	for id := 1; id <= z.nextID; id++ {
		if s, ok := z.live[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// UpdateExposure advances the dirty-water timer. Continuous exposure for
// limit seconds reports a shrink; shrinks are at least cooldown apart and the
// timer restarts after each one and whenever the zone is left.
func UpdateExposure(ex *components.Exposure, inZone bool, dt, limit, cooldown float64) bool {
	if ex.ShrinkCooldown > 0 {
		ex.ShrinkCooldown -= dt
		if ex.ShrinkCooldown < 0 {
			ex.ShrinkCooldown = 0
		}
	}
	if !inZone {
		ex.InZone = false
		ex.Timer = 0
		return false
	}
	ex.InZone = true
	ex.Timer += dt
	if ex.Timer >= limit && ex.ShrinkCooldown <= 0 {
		ex.Timer = 0
		ex.ShrinkCooldown = cooldown
		return true
	}
	return false
}
