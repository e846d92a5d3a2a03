package grid

// ConnectedComponents groups traversable cells into 4-connected regions.
// Components are returned in order of their first cell (row-major), and the
// cells inside each component in BFS discovery order.
//
// Time:   O(W·H·4).
// Memory: O(W·H) for the seen flags and the output.
func (g *Grid) ConnectedComponents() [][]Cell {
	seen := make([]bool, g.Size())
	var comps [][]Cell

	for i := range g.blocked {
		if g.blocked[i] || seen[i] {
			continue
		}
		seen[i] = true
		queue := []Cell{g.Coordinate(i)}
		for qi := 0; qi < len(queue); qi++ {
			for _, n := range g.Neighbors(queue[qi]) {
				ni := g.index(n.Cell)
				if !seen[ni] {
					seen[ni] = true
					queue = append(queue, n.Cell)
				}
			}
		}
		comps = append(comps, queue)
	}
	return comps
}

// Distances runs a BFS from `from` over traversable cells and returns the
// number of moves needed to reach every reachable cell. The source maps to 0.
// A non-traversable source yields an empty map.
func (g *Grid) Distances(from Cell) map[Cell]int {
	dist := make(map[Cell]int)
	if !g.IsTraversable(from) {
		return dist
	}
	dist[from] = 0
	queue := []Cell{from}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, n := range g.Neighbors(u) {
			if _, ok := dist[n.Cell]; ok {
				continue
			}
			dist[n.Cell] = dist[u] + 1
			queue = append(queue, n.Cell)
		}
	}
	return dist
}

// Reachable reports whether b can be reached from a through traversable cells.
func (g *Grid) Reachable(a, b Cell) bool {
	if !g.IsTraversable(a) || !g.IsTraversable(b) {
		return false
	}
	_, ok := g.Distances(a)[b]
	return ok
}
