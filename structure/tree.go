package structure

import (
	"fmt"
	"slices"

	"github.com/arloliu/evio/errs"
)

// Children returns the child list. The slice must not be modified.
func (s *Structure) Children() []*Structure { return s.children }

// ChildCount returns the number of children.
func (s *Structure) ChildCount() int { return len(s.children) }

// Child returns the i-th child, or nil when i is out of range.
func (s *Structure) Child(i int) *Structure {
	if i < 0 || i >= len(s.children) {
		return nil
	}

	return s.children[i]
}

// Parent returns the parent of s, or nil for a root.
func (s *Structure) Parent() *Structure { return s.parent }

// AddChild appends c to the children of s.
//
// Returns errs.ErrNotContainer when s holds data, errs.ErrTypeMismatch when
// c is not the kind of structure s holds, and errs.ErrInvalidArgument when c
// already has a parent or is an ancestor of s.
func (s *Structure) AddChild(c *Structure) error {
	return s.InsertChild(c, len(s.children))
}

// InsertChild inserts c at index i of the children of s.
func (s *Structure) InsertChild(c *Structure, i int) error {
	if err := s.checkChild(c); err != nil {
		return err
	}

	if i < 0 || i > len(s.children) {
		return fmt.Errorf("%w: child index %d out of range [0,%d]", errs.ErrInvalidArgument, i, len(s.children))
	}

	s.children = slices.Insert(s.children, i, c)
	c.parent = s

	return s.touch()
}

// RemoveChild detaches c from s. It reports whether c was a child of s.
func (s *Structure) RemoveChild(c *Structure) (bool, error) {
	i := slices.Index(s.children, c)
	if i < 0 {
		return false, nil
	}

	s.children = slices.Delete(s.children, i, i+1)
	c.parent = nil

	return true, s.touch()
}

func (s *Structure) checkChild(c *Structure) error {
	if c == nil {
		return fmt.Errorf("%w: nil child", errs.ErrInvalidArgument)
	}

	kind, ok := s.header.Type.ChildKind()
	if !ok {
		return fmt.Errorf("%w: %s of type %s", errs.ErrNotContainer, s.header.Kind, s.header.Type)
	}

	if c.header.Kind != kind {
		return fmt.Errorf("%w: %s of type %s cannot hold a %s", errs.ErrTypeMismatch, s.header.Kind, s.header.Type, c.header.Kind)
	}

	if c.parent != nil {
		return fmt.Errorf("%w: child already has a parent", errs.ErrInvalidArgument)
	}

	for n := s; n != nil; n = n.parent {
		if n == c {
			return fmt.Errorf("%w: child is an ancestor", errs.ErrInvalidArgument)
		}
	}

	return nil
}
