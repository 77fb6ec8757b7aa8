package structure

// Visit calls fn for s and every descendant in depth-first pre-order.
// Returning false from fn skips the children of that node.
func (s *Structure) Visit(fn func(*Structure) bool) {
	if !fn(s) {
		return
	}

	for _, c := range s.children {
		c.Visit(fn)
	}
}

// Find returns every structure in the tree rooted at s for which filter
// returns true, in pre-order.
func (s *Structure) Find(filter func(*Structure) bool) []*Structure {
	var found []*Structure
	s.Visit(func(n *Structure) bool {
		if filter(n) {
			found = append(found, n)
		}

		return true
	})

	return found
}

// FindByTagNum returns every structure with the given tag and num.
// Segments and tagsegments have num 0.
func (s *Structure) FindByTagNum(tag uint16, num uint8) []*Structure {
	return s.Find(func(n *Structure) bool {
		return n.header.Tag == tag && n.header.Num == num
	})
}

// FindByTag returns every structure with the given tag.
func (s *Structure) FindByTag(tag uint16) []*Structure {
	return s.Find(func(n *Structure) bool {
		return n.header.Tag == tag
	})
}
