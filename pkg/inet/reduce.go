// This file implements the reduction engine: active-pair discovery and
// the six interaction rules (annihilation-E, erasure-propagation,
// annihilation-C, annihilation-D, commutation).
//
// A Net reduces sequentially: one rewrite at a time, no suspension
// points, no concurrency. There is exactly one writer, so there is no
// goroutine pool, no wire scheduler and no atomic node claiming to
// coordinate — active pairs are tracked with a plain FIFO worklist
// (internal/worklist) populated as a side effect of Connect and
// InsertCell, with a deterministic arena-order scan as a fallback when
// the worklist runs dry.
package inet

// RuleKind names which of the six interaction rules fired.
type RuleKind int

const (
	RuleUnknown RuleKind = iota
	RuleAnnihilationE
	RuleErasurePropagation
	RuleAnnihilationC
	RuleAnnihilationD
	RuleCommutation
)

func (r RuleKind) String() string {
	switch r {
	case RuleAnnihilationE:
		return "annihilation-E"
	case RuleErasurePropagation:
		return "erasure-propagation"
	case RuleAnnihilationC:
		return "annihilation-C"
	case RuleAnnihilationD:
		return "annihilation-D"
	case RuleCommutation:
		return "commutation"
	default:
		return "unknown"
	}
}

// CanInteract reports whether c1 and c2 are distinct cells joined
// primary-to-primary.
func (n *Net) CanInteract(c1, c2 CellID) bool {
	if c1 == c2 {
		return false
	}
	a, ok := n.cells.Get(c1)
	if !ok {
		return false
	}
	b, ok := n.cells.Get(c2)
	if !ok {
		return false
	}
	return n.PortsConnected(a.prim, b.prim)
}

// Interact applies the rule determined by the pair's kinds.
// Precondition: CanInteract(c1, c2). Violating it returns a
// *NetError{Kind: ErrPreconditionViolated} rather than silently doing
// nothing or panicking.
func (n *Net) Interact(c1, c2 CellID) error {
	if !n.CanInteract(c1, c2) {
		return preconditionViolated(c1, c2, "Interact called on a non-active pair")
	}
	n.interact(c1, c2)
	return nil
}

// TryInteract applies the rule for (c1, c2) iff they form an active
// pair, and reports whether it actually did: true iff an interaction
// was applied, false (with the net left unchanged) otherwise.
func (n *Net) TryInteract(c1, c2 CellID) bool {
	if !n.CanInteract(c1, c2) {
		return false
	}
	n.interact(c1, c2)
	return true
}

// Step picks one active pair and applies its rule, returning true iff
// a rewrite was applied. If no active pair exists, it returns false
// and leaves the net unchanged.
//
// Discovery first drains the pending worklist (candidates queued as a
// side effect of Connect/InsertCell), revalidating each since earlier
// rewrites may have invalidated it. If the worklist is empty — e.g. on
// a freshly-loaded net whose wiring wasn't tracked incrementally — it
// falls back to a deterministic arena-order scan: walk Cells() in
// order, and for each cell look at its primary's wire partner.
func (n *Net) Step() bool {
	for {
		key, ok := n.pending.Pop()
		if !ok {
			break
		}
		if n.CanInteract(key.a, key.b) {
			n.interact(key.a, key.b)
			return true
		}
	}

	for _, c1 := range n.Cells() {
		cell, ok := n.cells.Get(c1)
		if !ok {
			continue
		}
		partner, ok := n.wires[cell.prim]
		if !ok {
			continue
		}
		pport, ok := n.ports.Get(partner)
		if !ok || !pport.hasCell {
			continue
		}
		c2 := pport.cell
		other, ok := n.cells.Get(c2)
		if !ok || other.prim != partner {
			continue
		}
		if n.CanInteract(c1, c2) {
			n.interact(c1, c2)
			return true
		}
	}
	return false
}

// Normalize repeats Step until it returns false. Termination is not
// guaranteed: a divergent net will never return.
func (n *Net) Normalize() {
	for n.Step() {
	}
}

// NormalizeWithLimit runs Step at most maxSteps times, returning the
// number of rewrites actually performed. A zero limit performs no
// work. Use this instead of Normalize when the net might diverge and
// a bounded amount of work is preferable to hanging forever.
func (n *Net) NormalizeWithLimit(maxSteps uint64) uint64 {
	var done uint64
	for done < maxSteps {
		if !n.Step() {
			break
		}
		done++
	}
	return done
}

// interact dispatches to the rule matching the pair's kinds. Callers
// must already know CanInteract(c1, c2) holds.
func (n *Net) interact(c1, c2 CellID) {
	a, _ := n.cells.Get(c1)
	b, _ := n.cells.Get(c2)

	// Disconnect the primaries' wire and condemn them; every rule
	// shares this footprint regardless of kind.
	n.Disconnect(a.prim, b.prim)

	switch {
	case a.kind == KindEraser && b.kind == KindEraser:
		n.stats.AnnihilationE++
		n.recordTrace(RuleAnnihilationE, c1, c2)
		n.annihilationE(c1, c2, a, b)

	case a.kind == KindEraser || b.kind == KindEraser:
		n.stats.ErasurePropagation++
		n.recordTrace(RuleErasurePropagation, c1, c2)
		if a.kind == KindEraser {
			n.erasurePropagation(c1, c2, a)
		} else {
			n.erasurePropagation(c2, c1, b)
		}

	case a.kind == KindConstructor && b.kind == KindConstructor:
		n.stats.AnnihilationC++
		n.recordTrace(RuleAnnihilationC, c1, c2)
		n.annihilateAux(c1, c2, a, b)

	case a.kind == KindDuplicator && b.kind == KindDuplicator:
		n.stats.AnnihilationD++
		n.recordTrace(RuleAnnihilationD, c1, c2)
		n.annihilateAux(c1, c2, a, b)

	default: // one Constructor, one Duplicator
		n.stats.Commutation++
		n.recordTrace(RuleCommutation, c1, c2)
		if a.kind == KindConstructor {
			n.commutation(c1, c2, a, b)
		} else {
			n.commutation(c2, c1, b, a)
		}
	}
}

// annihilationE removes both Eraser cells and frees both primaries.
// Net shrinks by 2 cells, 2 ports, 1 wire.
func (n *Net) annihilationE(era1, era2 CellID, a, b cellSlot) {
	n.RemoveCell(era1)
	n.RemoveCell(era2)
	n.freePort(a.prim)
	n.freePort(b.prim)
}

// erasurePropagation removes the Eraser and the non-Era cell c (with
// auxiliaries L, R), freeing the Eraser's primary and c's primary, and
// spawns fresh Erasers attached where L and R used to point.
func (n *Net) erasurePropagation(era, c CellID, eraCell cellSlot) {
	cell, _ := n.cells.Get(c)
	l, r := cell.left, cell.right

	n.RemoveCell(era)
	n.RemoveCell(c)
	n.freePort(eraCell.prim)
	n.freePort(cell.prim)

	n.spawnEraserOnto(l)
	n.spawnEraserOnto(r)
}

// spawnEraserOnto allocates a fresh Eraser whose primary takes over
// aux's former connection. If aux had a neighbor Y, Y ends up wired to
// the new Eraser and aux is discarded. If aux was itself free (the
// net's boundary), aux is kept alive and wired directly to the new
// Eraser's primary.
func (n *Net) spawnEraserOnto(aux PortID) {
	fresh := n.NewPort()
	newEra, _ := n.InsertCell(KindEraser, fresh)
	_ = newEra

	if y, ok := n.neighbor(aux); ok {
		n.Disconnect(aux, y)
		n.Connect(fresh, y)
		n.freePort(aux)
	} else {
		n.Connect(fresh, aux)
	}
}

// annihilateAux removes two same-kind cells (Con/Con or Dup/Dup) and
// splices their auxiliaries: L1-L2 and R1-R2.
func (n *Net) annihilateAux(c1, c2 CellID, a, b cellSlot) {
	n.RemoveCell(c1)
	n.RemoveCell(c2)
	n.freePort(a.prim)
	n.freePort(b.prim)

	n.fuseAux(a.left, b.left)
	n.fuseAux(a.right, b.right)
}

// fuseAux implements "Connect p1 — p2" generalized to whatever p1 and
// p2 were already wired to: if both had neighbors, the neighbors are
// spliced directly together and p1, p2 are discarded (the common
// case). If only one had a neighbor, that neighbor is rewired to the
// other (now-free) port. If neither had a neighbor — both are boundary
// ports — they end up wired directly to each other.
func (n *Net) fuseAux(p1, p2 PortID) {
	y1, ok1 := n.neighbor(p1)
	y2, ok2 := n.neighbor(p2)

	if ok1 && y1 == p2 {
		// p1 and p2 were wired only to each other: a closed loop that
		// simply vanishes with the two cells that owned them.
		n.Disconnect(p1, p2)
		n.freePort(p1)
		n.freePort(p2)
		return
	}

	switch {
	case ok1 && ok2:
		n.Disconnect(p1, y1)
		n.Disconnect(p2, y2)
		n.Connect(y1, y2)
		n.freePort(p1)
		n.freePort(p2)
	case ok1 && !ok2:
		n.Disconnect(p1, y1)
		n.Connect(y1, p2)
		n.freePort(p1)
	case !ok1 && ok2:
		n.Disconnect(p2, y2)
		n.Connect(p1, y2)
		n.freePort(p2)
	default:
		n.Connect(p1, p2)
	}
}

// commutation is the canonical Con/Dup rule. con has auxiliaries
// (Lc, Rc); dup has auxiliaries (Ld, Rd). Both original cells are
// removed; Lc, Rc, Ld, Rd are inherited (never freed) as the primaries
// of four fresh cells, wired in the canonical diamond pattern.
func (n *Net) commutation(conID, dupID CellID, con, dup cellSlot) {
	lc, rc := con.left, con.right
	ld, rd := dup.left, dup.right

	n.RemoveCell(conID)
	n.RemoveCell(dupID)
	n.freePort(con.prim)
	n.freePort(dup.prim)

	a, b := n.NewPort(), n.NewPort()
	upperDup, _ := n.InsertCell(KindDuplicator, lc, a, b)

	c, d := n.NewPort(), n.NewPort()
	upperCon, _ := n.InsertCell(KindConstructor, rd, c, d)

	e, f := n.NewPort(), n.NewPort()
	lowerDup, _ := n.InsertCell(KindDuplicator, rc, e, f)

	g, h := n.NewPort(), n.NewPort()
	lowerCon, _ := n.InsertCell(KindConstructor, ld, g, h)

	n.Connect(b, c) // upper_dup.right — upper_con.left
	n.Connect(a, g) // upper_dup.left — lower_con.left
	n.Connect(f, d) // lower_dup.right — upper_con.right
	n.Connect(e, h) // lower_dup.left — lower_con.right

	_, _, _, _ = upperDup, upperCon, lowerDup, lowerCon
}
