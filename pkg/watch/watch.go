// Package watch assembles the complete watch from its parts.
package watch

import (
	"fmt"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/parts"
	"github.com/taigrr/datejust/pkg/scene"
)

// Tilt is the root X rotation that angles the watch toward the camera.
const Tilt = -0.1

// Model is an assembled watch. Its topology never changes after Assemble;
// only the transforms of the named sub-assemblies move.
type Model struct {
	Root     *scene.Node
	Case     *scene.Node
	Dial     *scene.Node
	Hands    *scene.Node
	Bracelet *scene.Node
	Crystal  *scene.Node

	// HandSet holds the individually driven hands.
	HandSet parts.HandSet

	rest map[*scene.Node]math3d.Transform
}

// Assemble builds a watch at the given detail level with reference parameters.
func Assemble(mats parts.Materials, detail parts.Detail) (*Model, error) {
	return AssembleWith(mats, parts.DefaultOptions(detail))
}

// AssembleWith builds a watch from explicit options. Sub-assemblies are
// attached as case, dial, hands, bracelet, crystal; the crystal comes last
// so it is drawn over everything beneath it.
func AssembleWith(mats parts.Materials, o parts.Options) (*Model, error) {
	m := &Model{Root: scene.NewNode("watch")}
	var err error

	if m.Case, err = parts.BuildCase(mats, o.Case); err != nil {
		return nil, fmt.Errorf("assemble case: %w", err)
	}
	if m.Dial, err = parts.BuildDial(mats, o.Dial); err != nil {
		return nil, fmt.Errorf("assemble dial: %w", err)
	}
	if m.Hands, m.HandSet, err = parts.BuildHands(mats, o.Hands); err != nil {
		return nil, fmt.Errorf("assemble hands: %w", err)
	}
	m.Hands.SetPosition(math3d.V3(0, 0.28, 0))
	if m.Bracelet, err = parts.BuildBracelet(mats, o.Bracelet); err != nil {
		return nil, fmt.Errorf("assemble bracelet: %w", err)
	}
	if m.Crystal, err = parts.BuildCrystal(mats, o.Crystal); err != nil {
		return nil, fmt.Errorf("assemble crystal: %w", err)
	}

	if err := m.Root.Add(m.Case, m.Dial, m.Hands, m.Bracelet, m.Crystal); err != nil {
		return nil, fmt.Errorf("assemble watch: %w", err)
	}
	m.Root.SetRotation(math3d.E(Tilt, 0, 0))

	m.rest = make(map[*scene.Node]math3d.Transform)
	for _, n := range m.Movable() {
		m.rest[n] = n.Transform()
	}
	return m, nil
}

// Movable returns the nodes whose transforms the controller drives.
func (m *Model) Movable() []*scene.Node {
	return []*scene.Node{
		m.Root, m.Case, m.Dial, m.Hands, m.Bracelet,
		m.HandSet.Hour, m.HandSet.Minute, m.HandSet.Second,
	}
}

// Rest returns the transform n had right after assembly.
func (m *Model) Rest(n *scene.Node) math3d.Transform {
	if t, ok := m.rest[n]; ok {
		return t
	}
	return n.Transform()
}

// Reset returns every movable node to its rest transform.
func (m *Model) Reset() {
	for n, t := range m.rest {
		n.SetTransform(t)
	}
}

// Stats counts the nodes and primitives of the whole watch.
func (m *Model) Stats() scene.Stats {
	return scene.Count(m.Root)
}
