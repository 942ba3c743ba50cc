package scene

import (
	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
)

var (
	_ Object = (*Node)(nil)
	_ Object = (*Primitive)(nil)
)

// VisitFunc is called for every object with its world matrix.
// Returning false skips the object's descendants.
type VisitFunc func(o Object, world math3d.Mat4) bool

// Walk visits n and its descendants depth-first in child order.
func Walk(n *Node, fn VisitFunc) {
	parent := math3d.Identity()
	if n.parent != nil {
		parent = WorldMatrix(n.parent)
	}
	walk(n, parent, fn)
}

func walk(o Object, parent math3d.Mat4, fn VisitFunc) {
	world := parent.Mul(o.Transform().Matrix())
	if !fn(o, world) {
		return
	}
	if n, ok := o.(*Node); ok {
		for _, c := range n.children {
			walk(c, world, fn)
		}
	}
}

// Primitives returns every primitive beneath n in draw order.
func Primitives(n *Node) []*Primitive {
	var out []*Primitive
	Walk(n, func(o Object, _ math3d.Mat4) bool {
		if p, ok := o.(*Primitive); ok {
			out = append(out, p)
		}
		return true
	})
	return out
}

// Stats summarizes a subtree.
type Stats struct {
	Nodes      int
	Primitives int
	ByKind     map[Kind]int
	ByRole     map[material.Role]int
}

// Count gathers Stats for n, counting n itself as a node.
func Count(n *Node) Stats {
	s := Stats{ByKind: map[Kind]int{}, ByRole: map[material.Role]int{}}
	Walk(n, func(o Object, _ math3d.Mat4) bool {
		switch v := o.(type) {
		case *Node:
			s.Nodes++
		case *Primitive:
			s.Primitives++
			s.ByKind[v.Shape.Kind()]++
			s.ByRole[v.Material.Role()]++
		}
		return true
	})
	return s
}

// Entry is the structural fingerprint of one object: enough to decide
// whether two trees were built identically.
type Entry struct {
	Depth     int
	Name      string
	Kind      string // "group" for nodes, shape kind otherwise
	Shape     Shape
	Role      material.Role
	Transform math3d.Transform
}

// Flatten lists the fingerprint of every object beneath n in depth-first order.
func Flatten(n *Node) []Entry {
	var out []Entry
	var visit func(o Object, depth int)
	visit = func(o Object, depth int) {
		e := Entry{Depth: depth, Name: o.Name(), Transform: o.Transform(), Role: -1}
		switch v := o.(type) {
		case *Node:
			e.Kind = "group"
			out = append(out, e)
			for _, c := range v.children {
				visit(c, depth+1)
			}
			return
		case *Primitive:
			e.Kind = v.Shape.Kind().String()
			e.Shape = v.Shape
			e.Role = v.Material.Role()
		}
		out = append(out, e)
	}
	visit(n, 0)
	return out
}
