package engine

import (
	"math"

	"github.com/matzehuels/molpack/pkg/geom"
)

type cellKey [3]int64

type atomRef struct {
	mol int
	pos geom.Vec
}

// grid is a spatial hash over placed atoms. Cells are cubes of side size;
// a radius query visits every cell the query sphere can reach.
type grid struct {
	size  float64
	cells map[cellKey][]atomRef
	mols  map[int][]geom.Vec
}

func newGrid(size float64) *grid {
	return &grid{
		size:  size,
		cells: make(map[cellKey][]atomRef),
		mols:  make(map[int][]geom.Vec),
	}
}

func (g *grid) key(p geom.Vec) cellKey {
	return cellKey{
		int64(math.Floor(p.X / g.size)),
		int64(math.Floor(p.Y / g.size)),
		int64(math.Floor(p.Z / g.size)),
	}
}

func (g *grid) insert(mol int, atoms []geom.Vec) {
	g.mols[mol] = atoms
	for _, p := range atoms {
		k := g.key(p)
		g.cells[k] = append(g.cells[k], atomRef{mol: mol, pos: p})
	}
}

func (g *grid) remove(mol int) {
	atoms, ok := g.mols[mol]
	if !ok {
		return
	}
	delete(g.mols, mol)
	for _, p := range atoms {
		k := g.key(p)
		refs := g.cells[k][:0]
		for _, r := range g.cells[k] {
			if r.mol != mol {
				refs = append(refs, r)
			}
		}
		if len(refs) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = refs
		}
	}
}

// neighbours calls fn for every stored atom strictly closer than r to p.
func (g *grid) neighbours(p geom.Vec, r float64, fn func(ref atomRef, d float64)) {
	span := int64(math.Ceil(r / g.size))
	c := g.key(p)
	r2 := r * r
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				for _, ref := range g.cells[cellKey{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if d2 := p.Dist2(ref.pos); d2 < r2 {
						fn(ref, math.Sqrt(d2))
					}
				}
			}
		}
	}
}

func (g *grid) len() int { return len(g.mols) }
