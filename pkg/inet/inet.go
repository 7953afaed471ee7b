// Package inet implements the interaction-net graph store: ports,
// cells and wires, and the primitive mutations that keep them
// consistent. Reduction (the six rewrite rules) lives in reduce.go;
// this file owns the data model and the invariants bound to it.
//
// A Net is a single-writer resource: it is not safe for concurrent
// use, by design (see reduce.go's package doc for the reduction
// engine's sequential execution model).
package inet

import (
	"github.com/google/uuid"

	"github.com/vic/inet/internal/arena"
	"github.com/vic/inet/internal/worklist"
)

// Kind identifies the role a cell plays: Eraser, Constructor or
// Duplicator. These three are the only combinators this engine knows;
// there are no typed or labeled variants.
type Kind int

const (
	KindEraser Kind = iota
	KindConstructor
	KindDuplicator
)

func (k Kind) String() string {
	switch k {
	case KindEraser:
		return "Eraser"
	case KindConstructor:
		return "Constructor"
	case KindDuplicator:
		return "Duplicator"
	default:
		return "Unknown"
	}
}

// PortID identifies a port. The sentinel NoPort (the largest PortID
// value) never refers to a live port; it marks an absent auxiliary
// slot (e.g. an Eraser's unused left/right).
type PortID uint32

// NoPort is the sentinel "no port here" value.
const NoPort PortID = ^PortID(0)

// CellID identifies a cell.
type CellID uint32

// Port is a read-only view of a port's state.
type Port struct {
	Cell    CellID
	HasCell bool
}

// Cell is a read-only view of a cell's state. Left and Right are
// NoPort for Eraser cells.
type Cell struct {
	Kind    Kind
	Primary PortID
	Left    PortID
	Right   PortID
}

// Ports returns the cell's ports in primary, left, right order,
// omitting NoPort slots.
func (c Cell) Ports() []PortID {
	ports := make([]PortID, 0, 3)
	ports = append(ports, c.Primary)
	if c.Left != NoPort {
		ports = append(ports, c.Left)
	}
	if c.Right != NoPort {
		ports = append(ports, c.Right)
	}
	return ports
}

type portSlot struct {
	cell    CellID
	hasCell bool
}

type cellSlot struct {
	kind  Kind
	prim  PortID
	left  PortID
	right PortID
}

// pairKey is a normalized, order-independent handle on an active pair
// candidate, used as the worklist's comparable element.
type pairKey struct {
	a, b CellID
}

func makePairKey(a, b CellID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Net owns every live port, cell and wire. Identifiers handed out by
// a Net are only meaningful while that Net is reachable; nothing is
// shared across Nets.
type Net struct {
	id    uuid.UUID
	ports *arena.Arena[PortID, portSlot]
	cells *arena.Arena[CellID, cellSlot]
	wires map[PortID]PortID

	pending *worklist.Queue[pairKey]

	stats   Stats
	trace   []TraceEvent
	tracing bool
}

// New returns an empty net.
func New() *Net {
	return &Net{
		id:      uuid.New(),
		ports:   arena.New[PortID, portSlot](),
		cells:   arena.New[CellID, cellSlot](),
		wires:   make(map[PortID]PortID),
		pending: worklist.New[pairKey](),
	}
}

// ID returns the net's run identifier, stable for the life of the
// Net. It has no bearing on reduction; it exists so trace events from
// several concurrently-held Nets (e.g. in tests) can be told apart.
func (n *Net) ID() uuid.UUID {
	return n.id
}

// NewPort allocates a free port: no owning cell, no wire.
func (n *Net) NewPort() PortID {
	return n.ports.Alloc(portSlot{})
}

// RemovePort releases p. p must be free (no owning cell) and unwired
// (I4); otherwise ErrInvalidPortRemoval.
func (n *Net) RemovePort(p PortID) error {
	slot, ok := n.ports.Get(p)
	if !ok {
		return missingHandle("RemovePort", uint64(p))
	}
	if slot.hasCell {
		return invalidPortRemoval(p, "port is owned by a cell")
	}
	if _, wired := n.wires[p]; wired {
		return invalidPortRemoval(p, "port is wired")
	}
	n.ports.Free(p)
	return nil
}

// Connect establishes a symmetric wire between p and q. p must differ
// from q (I2); otherwise ErrSelfLoop. If either endpoint was already
// wired, the previous wire's counterpart is left dangling — callers
// must Disconnect first. The reduction engine always does.
func (n *Net) Connect(p, q PortID) error {
	if p == q {
		return selfLoop(p)
	}
	if !n.ports.IsAlive(p) {
		return missingHandle("Connect", uint64(p))
	}
	if !n.ports.IsAlive(q) {
		return missingHandle("Connect", uint64(q))
	}
	n.wires[p] = q
	n.wires[q] = p
	n.checkActivePair(p)
	n.checkActivePair(q)
	return nil
}

// Disconnect removes the wire between p and q. Idempotent: a no-op if
// p and q are not currently wired to each other.
func (n *Net) Disconnect(p, q PortID) {
	if n.wires[p] == q {
		delete(n.wires, p)
		delete(n.wires, q)
	}
}

// PortsConnected reports whether p and q are wired to each other.
func (n *Net) PortsConnected(p, q PortID) bool {
	partner, ok := n.wires[p]
	return ok && partner == q
}

// neighbor returns the port wired to p, if any.
func (n *Net) neighbor(p PortID) (PortID, bool) {
	q, ok := n.wires[p]
	return q, ok
}

// InsertCell creates a cell of the given kind from caller-supplied
// ports, taking ownership of them (setting each port's owning-cell
// back-reference). aux must have length 2 for Constructor/Duplicator
// and length 0 for Eraser. A supplied port that is already owned by a
// cell is rejected with ErrPreconditionViolated (I1).
func (n *Net) InsertCell(kind Kind, primary PortID, aux ...PortID) (CellID, error) {
	wantAux := 0
	if kind == KindConstructor || kind == KindDuplicator {
		wantAux = 2
	}
	if len(aux) != wantAux {
		return 0, &NetError{
			Kind:    ErrPreconditionViolated,
			Handles: []uint64{uint64(primary)},
			Msg:     "wrong number of auxiliary ports for cell kind",
		}
	}
	if !n.ports.IsAlive(primary) {
		return 0, missingHandle("InsertCell", uint64(primary))
	}
	left, right := NoPort, NoPort
	if wantAux == 2 {
		left, right = aux[0], aux[1]
		if !n.ports.IsAlive(left) {
			return 0, missingHandle("InsertCell", uint64(left))
		}
		if !n.ports.IsAlive(right) {
			return 0, missingHandle("InsertCell", uint64(right))
		}
	}
	for _, p := range []PortID{primary, left, right} {
		if slot, ok := n.ports.Get(p); ok && slot.hasCell {
			return 0, &NetError{
				Kind:    ErrPreconditionViolated,
				Handles: []uint64{uint64(p)},
				Msg:     "port is already owned by a cell",
			}
		}
	}

	id := n.cells.Alloc(cellSlot{kind: kind, prim: primary, left: left, right: right})
	n.setOwner(primary, id)
	if wantAux == 2 {
		n.setOwner(left, id)
		n.setOwner(right, id)
	}
	n.checkActivePair(primary)
	return id, nil
}

func (n *Net) setOwner(p PortID, c CellID) {
	n.ports.Set(p, portSlot{cell: c, hasCell: true})
}

// RemoveCell clears the owning-cell back-reference on every port of c,
// then releases the cell slot. Wires are untouched: the cell's ports
// remain wired to whatever they were wired to before.
func (n *Net) RemoveCell(c CellID) error {
	cell, ok := n.cells.Get(c)
	if !ok {
		return missingHandle("RemoveCell", uint64(c))
	}
	n.clearOwner(cell.prim)
	if cell.left != NoPort {
		n.clearOwner(cell.left)
	}
	if cell.right != NoPort {
		n.clearOwner(cell.right)
	}
	n.cells.Free(c)
	return nil
}

func (n *Net) clearOwner(p PortID) {
	n.ports.Set(p, portSlot{})
}

// Cell returns a read-only view of c.
func (n *Net) Cell(c CellID) (Cell, bool) {
	slot, ok := n.cells.Get(c)
	if !ok {
		return Cell{}, false
	}
	return Cell{Kind: slot.kind, Primary: slot.prim, Left: slot.left, Right: slot.right}, true
}

// Port returns a read-only view of p.
func (n *Net) Port(p PortID) (Port, bool) {
	slot, ok := n.ports.Get(p)
	if !ok {
		return Port{}, false
	}
	return Port{Cell: slot.cell, HasCell: slot.hasCell}, true
}

// Cells returns every live cell identifier in arena order. The order
// is deterministic across unmodified iterations but otherwise
// unspecified.
func (n *Net) Cells() []CellID {
	return n.cells.Ids()
}

// CellCount and PortCount report the number of live cells and ports,
// for scenario/property assertions.
func (n *Net) CellCount() int { return n.cells.Len() }
func (n *Net) PortCount() int { return n.ports.Len() }

// WireCount reports the number of live wires.
func (n *Net) WireCount() int {
	return len(n.wires) / 2
}

// freePort frees a port that the engine knows, by construction, to be
// ownerless and unwired (a condemned primary, or an aux port orphaned
// by a rewrite rule). It
// never fails on a consistent net; any error is a bug in the engine.
func (n *Net) freePort(p PortID) {
	n.ports.Free(p)
}

// checkActivePair pushes (p's cell, p's wire partner's cell) onto the
// pending worklist when both are live cells joined primary-to-primary.
// It is only a hint: Step revalidates before applying anything.
func (n *Net) checkActivePair(p PortID) {
	port, ok := n.ports.Get(p)
	if !ok || !port.hasCell {
		return
	}
	cell, ok := n.cells.Get(port.cell)
	if !ok || cell.prim != p {
		return
	}
	partner, ok := n.wires[p]
	if !ok {
		return
	}
	pport, ok := n.ports.Get(partner)
	if !ok || !pport.hasCell {
		return
	}
	other, ok := n.cells.Get(pport.cell)
	if !ok || other.prim != partner {
		return
	}
	n.pending.Push(makePairKey(port.cell, pport.cell))
}
