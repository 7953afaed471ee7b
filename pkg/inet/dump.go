package inet

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// WireList returns every live wire as a (lower, higher) port pair in
// deterministic ascending order. The net's wire storage is a plain Go
// map (twin entries, one per direction) whose iteration order is
// randomized by the runtime; sorting the keys via x/exp/slices after
// collecting them with x/exp/maps is what makes Dump and test
// assertions reproducible from run to run.
func (n *Net) WireList() [][2]PortID {
	keys := maps.Keys(n.wires)
	slices.Sort(keys)

	seen := make(map[PortID]bool, len(keys))
	out := make([][2]PortID, 0, len(keys)/2)
	for _, p := range keys {
		if seen[p] {
			continue
		}
		q := n.wires[p]
		seen[p], seen[q] = true, true
		lo, hi := p, q
		if lo > hi {
			lo, hi = hi, lo
		}
		out = append(out, [2]PortID{lo, hi})
	}
	return out
}

// Dump renders the net's live cells and wires as text, for test
// failure messages and debugging. It is not a serialization format —
// the engine has none (persistence is out of scope).
func (n *Net) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "net %s: %d cells, %d ports, %d wires\n", n.id, n.CellCount(), n.PortCount(), n.WireCount())
	for _, id := range n.Cells() {
		cell, _ := n.Cell(id)
		fmt.Fprintf(&b, "  cell %d %s primary=%d", id, cell.Kind, cell.Primary)
		if cell.Left != NoPort {
			fmt.Fprintf(&b, " left=%d right=%d", cell.Left, cell.Right)
		}
		b.WriteByte('\n')
	}
	for _, w := range n.WireList() {
		fmt.Fprintf(&b, "  wire %d — %d\n", w[0], w[1])
	}
	return b.String()
}
