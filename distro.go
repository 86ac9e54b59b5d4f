package sblint

// DistroPkg is the recursive per-distribution package override structure:
// either a leaf list of package names or an inner node of key -> DistroPkg
// entries in source order.
type DistroPkg struct {
	List  []string
	Inner []DistroEntry
}

// DistroEntry is one key/child pair of an inner DistroPkg node.
type DistroEntry struct {
	Key  string
	Node DistroPkg
}

// IsLeaf reports whether the node is a package-name list.
func (d DistroPkg) IsLeaf() bool { return d.Inner == nil }

// decodeDistroPkg builds the DistroPkg tree from a raw validated value.
// A Mapping becomes an inner node, a sequence of strings becomes a leaf.
// Anything else (scalars, mixed sequences) does not fit the shape and
// reports ok=false; callers skip the duplicate check in that case.
func decodeDistroPkg(v any) (DistroPkg, bool) {
	switch t := v.(type) {
	case Mapping:
		node := DistroPkg{Inner: make([]DistroEntry, 0, len(t))}
		for _, e := range t {
			child, ok := decodeDistroPkg(e.Value)
			if !ok {
				return DistroPkg{}, false
			}
			node.Inner = append(node.Inner, DistroEntry{Key: e.Key, Node: child})
		}
		return node, true
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return DistroPkg{}, false
			}
			list = append(list, s)
		}
		return DistroPkg{List: list}, true
	default:
		return DistroPkg{}, false
	}
}
