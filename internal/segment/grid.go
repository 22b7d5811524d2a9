package segment

// gridConfidence applies to every grid cell: regular strong lines on both
// axes leave little ambiguity about panel placement.
const gridConfidence = 0.95

// gridStrategy forms panels from all row×column intersections of the strong
// boundary lines found during classification. Page edges act as implicit
// outer boundaries.
func gridStrategy(lines gridLines, w, h int, cfg Config) []Panel {
	rowBounds := buildBoundaries(lines.rows, h, cfg.LineMergeTolerance)
	colBounds := buildBoundaries(lines.cols, w, cfg.LineMergeTolerance)

	var panels []Panel
	for r := 0; r < len(rowBounds)-1; r++ {
		for c := 0; c < len(colBounds)-1; c++ {
			cell := Rect{
				X: colBounds[c],
				Y: rowBounds[r],
				W: colBounds[c+1] - colBounds[c],
				H: rowBounds[r+1] - rowBounds[r],
			}
			if cell.W <= 0 || cell.H <= 0 {
				continue
			}
			panels = append(panels, Panel{
				Bounds:       cell,
				Type:         PanelGrid,
				Confidence:   gridConfidence,
				ReadingOrder: -1,
			})
		}
	}
	return panels
}
