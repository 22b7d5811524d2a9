package segment

import (
	"math"
	"sort"
)

// assignReadingOrder orders panels according to the reading-direction policy
// and writes 0-based ReadingOrder values. Every panel receives an order; the
// assigned values always form a permutation of 0..N-1.
//
// RTL and LTR use a "z-pattern": panels are grouped into rows (same-row when
// the center-y difference is less than half the smaller panel height), rows
// run top-to-bottom, and panels within a row run right-to-left (RTL) or
// left-to-right (LTR). TTB is a flat top-to-bottom sort.
func assignReadingOrder(panels []Panel, dir Direction) {
	if len(panels) == 0 {
		return
	}

	order := make([]*Panel, len(panels))
	for i := range panels {
		order[i] = &panels[i]
	}

	if dir == DirectionTTB {
		sort.SliceStable(order, func(i, j int) bool {
			if order[i].Bounds.CenterY() != order[j].Bounds.CenterY() {
				return order[i].Bounds.CenterY() < order[j].Bounds.CenterY()
			}
			return order[i].Bounds.CenterX() < order[j].Bounds.CenterX()
		})
		for i, p := range order {
			p.ReadingOrder = i
		}
		return
	}

	// Group into rows by vertical proximity, top to bottom.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Bounds.CenterY() < order[j].Bounds.CenterY()
	})
	var rows [][]*Panel
	for _, p := range order {
		placed := false
		if len(rows) > 0 {
			row := rows[len(rows)-1]
			ref := row[0]
			limit := float64(minInt(ref.Bounds.H, p.Bounds.H)) / 2
			if math.Abs(p.Bounds.CenterY()-ref.Bounds.CenterY()) < limit {
				rows[len(rows)-1] = append(row, p)
				placed = true
			}
		}
		if !placed {
			rows = append(rows, []*Panel{p})
		}
	}

	n := 0
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			if dir == DirectionRTL {
				return row[i].Bounds.CenterX() > row[j].Bounds.CenterX()
			}
			return row[i].Bounds.CenterX() < row[j].Bounds.CenterX()
		})
		for _, p := range row {
			p.ReadingOrder = n
			n++
		}
	}
}

// assignNeighbors fills each panel's directional neighbor references with
// nearest-neighbor heuristics along each axis. A candidate is a vertical
// neighbor when its horizontal center offset is smaller than half the
// panel's width and smaller than the vertical offset magnitude; horizontal
// neighbors mirror the rule. Links are computed independently per panel and
// may be asymmetric.
func assignNeighbors(panels []Panel) {
	for i := range panels {
		a := &panels[i]
		acx, acy := a.Bounds.CenterX(), a.Bounds.CenterY()
		halfW := float64(a.Bounds.W) / 2
		halfH := float64(a.Bounds.H) / 2

		bestTop, bestBottom := math.MaxFloat64, math.MaxFloat64
		bestLeft, bestRight := math.MaxFloat64, math.MaxFloat64

		for j := range panels {
			if i == j {
				continue
			}
			b := &panels[j]
			dx := b.Bounds.CenterX() - acx
			dy := b.Bounds.CenterY() - acy
			adx, ady := math.Abs(dx), math.Abs(dy)

			if adx < halfW && adx < ady {
				if dy < 0 && ady < bestTop {
					bestTop = ady
					a.Neighbors.Top = b.ID
				} else if dy > 0 && ady < bestBottom {
					bestBottom = ady
					a.Neighbors.Bottom = b.ID
				}
			}
			if ady < halfH && ady < adx {
				if dx < 0 && adx < bestLeft {
					bestLeft = adx
					a.Neighbors.Left = b.ID
				} else if dx > 0 && adx < bestRight {
					bestRight = adx
					a.Neighbors.Right = b.ID
				}
			}
		}
	}
}
