package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Pair is one flattened key/value parameter.
type Pair struct {
	Key   string
	Value string
}

// FlatSet is an ordered set of flattened parameters, sorted ascending by key
// using byte-wise comparison. Keys are unique.
type FlatSet []Pair

// Get returns the value for key and whether it is present.
func (fs FlatSet) Get(key string) (string, bool) {
	for _, p := range fs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present in the set.
func (fs FlatSet) Has(key string) bool {
	_, ok := fs.Get(key)
	return ok
}

// Clone returns an independent copy of the set.
func (fs FlatSet) Clone() FlatSet {
	out := make(FlatSet, len(fs))
	copy(out, fs)
	return out
}

// Sort orders the set ascending by key. Go's string comparison is byte-wise,
// which is exactly the ordering the server's canonicalization uses.
func (fs FlatSet) Sort() {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Key < fs[j].Key })
}

// Flatten canonicalizes a parameter mapping into a FlatSet.
//
// Scalars map to a single pair. Lists map to "<key>.<n>" pairs with 1-based
// indexes in sequence order. Maps map to "<key>.<subkey>" pairs recursively.
// Nil values are omitted entirely, never emitted as empty strings. The result
// is sorted byte-wise by key and contains no duplicates; a collision (for
// example a literal "tags.1" key next to a "tags" list) fails with
// ErrDuplicateKey.
func Flatten(m Map) (FlatSet, error) {
	var out FlatSet
	if err := flattenMap(m, "", &out); err != nil {
		return nil, err
	}
	out.Sort()
	for i := 1; i < len(out); i++ {
		if out[i].Key == out[i-1].Key {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, out[i].Key)
		}
	}
	return out, nil
}

func flattenMap(m Map, prefix string, out *FlatSet) error {
	for k, v := range m {
		if k == "" {
			return ErrEmptyKey
		}
		if err := flattenValue(v, prefix+k, out); err != nil {
			return err
		}
	}
	return nil
}

func flattenValue(v Value, key string, out *FlatSet) error {
	switch x := v.(type) {
	case nil:
		return nil
	case List:
		for i, item := range x {
			if err := flattenValue(item, key+"."+strconv.Itoa(i+1), out); err != nil {
				return err
			}
		}
		return nil
	case Map:
		return flattenMap(x, key+".", out)
	default:
		s, ok := stringify(v)
		if !ok {
			return fmt.Errorf("%w at %q: %T", ErrInvalidParameterKind, key, v)
		}
		*out = append(*out, Pair{Key: key, Value: s})
		return nil
	}
}

// Nest is the inverse of Flatten. Dotted path segments become nested maps,
// and a group of keys whose segments are the consecutive indexes 1..N becomes
// a List in index order. All leaves come back as String values, since the
// flat form carries no type information.
//
// Nest exists for debugging and for round-trip testing of the canonicalizer;
// request construction never needs it.
func Nest(fs FlatSet) (Map, error) {
	root := newNestNode()
	for _, p := range fs {
		node := root
		segments := strings.Split(p.Key, ".")
		for _, seg := range segments[:len(segments)-1] {
			if seg == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyKey, p.Key)
			}
			child, ok := node.children[seg]
			if !ok {
				child = newNestNode()
				node.children[seg] = child
			}
			if child.leaf != nil {
				return nil, fmt.Errorf("%w: %q is both scalar and container", ErrDuplicateKey, p.Key)
			}
			node = child
		}
		last := segments[len(segments)-1]
		if last == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyKey, p.Key)
		}
		if existing, ok := node.children[last]; ok {
			if existing.leaf != nil || len(existing.children) > 0 {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, p.Key)
			}
		}
		leaf := newNestNode()
		value := p.Value
		leaf.leaf = &value
		node.children[last] = leaf
	}
	v, err := root.value()
	if err != nil {
		return nil, err
	}
	m, ok := v.(Map)
	if !ok {
		// Top level keys were all numeric; still a valid mapping shape.
		return nil, fmt.Errorf("%w: top-level parameters must form a mapping", ErrInvalidParameterKind)
	}
	return m, nil
}

type nestNode struct {
	children map[string]*nestNode
	leaf     *string
}

func newNestNode() *nestNode {
	return &nestNode{children: make(map[string]*nestNode)}
}

// value converts a node into a Value: a String leaf, a List when the child
// keys are exactly 1..N, otherwise a Map.
func (n *nestNode) value() (Value, error) {
	if n.leaf != nil {
		return String(*n.leaf), nil
	}
	if list, ok := n.asList(); ok {
		out := make(List, len(list))
		for i, child := range list {
			v, err := child.value()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	out := make(Map, len(n.children))
	for key, child := range n.children {
		v, err := child.value()
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (n *nestNode) asList() ([]*nestNode, bool) {
	if len(n.children) == 0 {
		return nil, false
	}
	list := make([]*nestNode, len(n.children))
	for key, child := range n.children {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 1 || idx > len(n.children) || list[idx-1] != nil {
			return nil, false
		}
		// Reject non-canonical index spellings such as "01".
		if strconv.Itoa(idx) != key {
			return nil, false
		}
		list[idx-1] = child
	}
	return list, true
}
