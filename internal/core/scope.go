package core

import "sort"

// Scope is an ordered namespace of global bindings handed to evaluated code.
// Values are opaque to this package; a *Scope value is a nested namespace.
type Scope struct {
	keys   []string
	values map[string]any
}

func NewScope() *Scope {
	return &Scope{values: make(map[string]any)}
}

// ScopeFromMap builds a scope from a map, keys in sorted order.
func ScopeFromMap(m map[string]any) *Scope {
	s := NewScope()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, m[k])
	}
	return s
}

func (s *Scope) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

func (s *Scope) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *Scope) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone returns a shallow copy. Nested namespaces are shared.
func (s *Scope) Clone() *Scope {
	c := NewScope()
	for _, k := range s.Keys() {
		c.Set(k, s.values[k])
	}
	return c
}

// Merge copies every binding of other into s, overwriting existing keys.
func (s *Scope) Merge(other *Scope) {
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		s.Set(k, v)
	}
}

// Namespace returns the nested namespace stored under key, creating it when
// the key is absent or holds something else. A map value is lifted into a
// scope with the same bindings.
func (s *Scope) Namespace(key string) *Scope {
	switch v := s.values[key].(type) {
	case *Scope:
		if v != nil {
			return v
		}
	case map[string]any:
		ns := ScopeFromMap(v)
		s.Set(key, ns)
		return ns
	}
	ns := NewScope()
	s.Set(key, ns)
	return ns
}

// ToMap flattens the scope into a map. Nested namespaces become maps too.
func (s *Scope) ToMap() map[string]any {
	m := make(map[string]any, s.Len())
	for _, k := range s.Keys() {
		v := s.values[k]
		if ns, ok := v.(*Scope); ok {
			v = ns.ToMap()
		}
		m[k] = v
	}
	return m
}
