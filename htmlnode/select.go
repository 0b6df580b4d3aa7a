package htmlnode

import "github.com/telwick/selq"

// Select returns the elements under root, root included, matching the
// evaluator. Elements are returned in document order.
func Select(ev selq.Evaluator, root *Element) []*Element {
	var out []*Element
	walk(root, func(e *Element) bool {
		if ev.Matches(root, e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// SelectFirst returns the first matching element in document order, or
// nil.
func SelectFirst(ev selq.Evaluator, root *Element) *Element {
	var found *Element
	walk(root, func(e *Element) bool {
		if ev.Matches(root, e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Matches reports whether el matches the evaluator relative to root.
func Matches(ev selq.Evaluator, root, el *Element) bool {
	return ev.Matches(root, el)
}

// Query compiles the selector and returns the matches under root.
func Query(selector string, root *Element) ([]*Element, error) {
	ev, err := selq.Parse(selector)
	if err != nil {
		return nil, err
	}
	return Select(ev, root), nil
}

// walk visits root and its descendant elements depth-first until the
// visitor returns false.
func walk(e *Element, visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for c := e.Node().FirstChild; c != nil; c = c.NextSibling {
		if child := FromNode(c); child != nil {
			if !walk(child, visit) {
				return false
			}
		}
	}
	return true
}
