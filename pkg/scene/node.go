package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
)

var (
	// ErrAttached is returned when adding an object that already has a parent.
	ErrAttached = errors.New("object already attached")
	// ErrCycle is returned when adding a node to itself or to one of its descendants.
	ErrCycle = errors.New("attachment would create a cycle")
	// ErrNoMaterial is returned for primitives without a material descriptor.
	ErrNoMaterial = errors.New("primitive has no material")
)

// Object is anything that can sit in the tree: a *Node or a *Primitive.
type Object interface {
	Name() string
	Transform() math3d.Transform
	Parent() *Node
	base() *objectBase
}

type objectBase struct {
	name   string
	local  math3d.Transform
	parent *Node
}

func (o *objectBase) Name() string                { return o.name }
func (o *objectBase) Transform() math3d.Transform { return o.local }
func (o *objectBase) Parent() *Node               { return o.parent }
func (o *objectBase) base() *objectBase           { return o }

// SetTransform replaces the local transform.
func (o *objectBase) SetTransform(t math3d.Transform) { o.local = t }

// SetPosition replaces the local position.
func (o *objectBase) SetPosition(p math3d.Vec3) { o.local.Position = p }

// SetRotation replaces the local rotation.
func (o *objectBase) SetRotation(r math3d.Euler) { o.local.Rotation = r }

// Primitive is a single drawable shape bound to one material descriptor.
type Primitive struct {
	objectBase
	Shape    Shape
	Material *material.Descriptor
}

// NewPrimitive validates the shape and binds it to mat with local transform t.
func NewPrimitive(name string, shape Shape, mat *material.Descriptor, t math3d.Transform) (*Primitive, error) {
	if shape == nil {
		return nil, fmt.Errorf("%s: %w: nil shape", name, ErrInvalidShape)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if mat == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoMaterial)
	}
	return &Primitive{
		objectBase: objectBase{name: name, local: t},
		Shape:      shape,
		Material:   mat,
	}, nil
}

// Node is a named assembly group owning an ordered list of children.
type Node struct {
	objectBase
	children []Object
}

// NewNode creates an empty group at the rest transform.
func NewNode(name string) *Node {
	return &Node{objectBase: objectBase{name: name, local: math3d.IdentityTransform()}}
}

// Add appends children in order. Each child must be unattached, and a node
// may not be added beneath itself. On error nothing is attached.
func (n *Node) Add(children ...Object) error {
	for _, c := range children {
		if c == nil {
			return fmt.Errorf("%s: add nil child", n.name)
		}
		if c.Parent() != nil {
			return fmt.Errorf("%s: add %q: %w to %q", n.name, c.Name(), ErrAttached, c.Parent().Name())
		}
		if cn, ok := c.(*Node); ok {
			for a := n; a != nil; a = a.parent {
				if a == cn {
					return fmt.Errorf("%s: add %q: %w", n.name, c.Name(), ErrCycle)
				}
			}
		}
	}
	for _, c := range children {
		c.base().parent = n
		n.children = append(n.children, c)
	}
	return nil
}

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []Object {
	return n.children
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the direct child node with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok && cn.name == name {
			return cn
		}
	}
	return nil
}

// Find returns the first node named name in depth-first order, including n.
func (n *Node) Find(name string) *Node {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok {
			if found := cn.Find(name); found != nil {
				return found
			}
		}
	}
	return nil
}

// WorldMatrix returns the product of the local transforms from the root down to o.
func WorldMatrix(o Object) math3d.Mat4 {
	m := o.Transform().Matrix()
	for p := o.Parent(); p != nil; p = p.Parent() {
		m = p.Transform().Matrix().Mul(m)
	}
	return m
}
