// Package systems provides the agent simulation systems: sensing, steering,
// behavior decisions and predation.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E       ecs.Entity
	Species components.Species
	Delta   r2.Vec  // from query origin to the neighbor
	DistSq  float64 // squared distance (avoid sqrt in hot path)
}

// gridEntry caches what queries filter on so they never touch the ECS.
type gridEntry struct {
	e       ecs.Entity
	species components.Species
	pos     r2.Vec
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
// The tank is bounded, so cells do not wrap.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridEntry
	dead     map[ecs.Entity]struct{}
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		dead:     make(map[ecs.Entity]struct{}),
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	clear(g.dead)
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, species components.Species, pos r2.Vec) {
	idx := g.cellIndex(pos)
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, species: species, pos: pos})
}

// MarkDead hides an entity from queries for the rest of the tick.
// The grid is rebuilt every tick, so this never needs undoing.
func (g *SpatialGrid) MarkDead(e ecs.Entity) {
	g.dead[e] = struct{}{}
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

// SpeciesMask selects species in a query. Zero matches nothing.
type SpeciesMask uint16

// MaskOf builds a mask from species tags.
func MaskOf(species ...components.Species) SpeciesMask {
	var m SpeciesMask
	for _, s := range species {
		m |= 1 << s
	}
	return m
}

// AllSpecies matches every species.
const AllSpecies SpeciesMask = 1<<components.NumSpecies - 1

// Has reports whether s is in the mask.
func (m SpeciesMask) Has(s components.Species) bool {
	return m&(1<<s) != 0
}

// scan calls visit for every alive entity of the masked species within
// radius of p, in cell order. visit returns false to stop the scan.
func (g *SpatialGrid) scan(p r2.Vec, radius float64, mask SpeciesMask, exclude ecs.Entity, visit func(Neighbor) bool) {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol := int(p.X / g.cellSize)
	centerRow := int(p.Y / g.cellSize)
	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			for _, ent := range g.cells[row*g.cols+col] {
				if ent.e == exclude || !mask.Has(ent.species) {
					continue
				}
				if _, dead := g.dead[ent.e]; dead {
					continue
				}
				d := r2.Sub(ent.pos, p)
				distSq := r2.Norm2(d)
				if distSq > radiusSq {
					continue
				}
				if !visit(Neighbor{E: ent.e, Species: ent.species, Delta: d, DistSq: distSq}) {
					return
				}
			}
		}
	}
}

// QueryRadiusInto finds alive entities of the masked species within radius of p
// and appends them to dst (up to MaxQueryResults, in cell order, not distance
// order). Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, p r2.Vec, radius float64, mask SpeciesMask, exclude ecs.Entity) []Neighbor {
	g.scan(p, radius, mask, exclude, func(n Neighbor) bool {
		dst = append(dst, n)
		return len(dst) < MaxQueryResults
	})
	return dst
}

// ForEachInRadius calls fn for every alive entity of the masked species within
// radius of p, with no result cap.
func (g *SpatialGrid) ForEachInRadius(p r2.Vec, radius float64, mask SpeciesMask, exclude ecs.Entity, fn func(Neighbor)) {
	g.scan(p, radius, mask, exclude, func(n Neighbor) bool {
		fn(n)
		return true
	})
}

// Nearest returns the closest alive entity of the masked species within radius.
func (g *SpatialGrid) Nearest(p r2.Vec, radius float64, mask SpeciesMask, exclude ecs.Entity) (Neighbor, bool) {
	return g.NearestMatch(p, radius, mask, exclude, nil)
}

// NearestMatch returns the closest entity accepted by keep (nil keeps all).
// It scans every candidate in range, so crowds never hide the closest one.
func (g *SpatialGrid) NearestMatch(p r2.Vec, radius float64, mask SpeciesMask, exclude ecs.Entity, keep func(Neighbor) bool) (Neighbor, bool) {
	var best Neighbor
	found := false
	g.scan(p, radius, mask, exclude, func(n Neighbor) bool {
		if (!found || n.DistSq < best.DistSq) && (keep == nil || keep(n)) {
			best, found = n, true
		}
		return true
	})
	return best, found
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(p r2.Vec) int {
	col := int(p.X / g.cellSize)
	row := int(p.Y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}
