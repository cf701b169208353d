package models

import (
	dErrors "confcentral/pkg/domain-errors"
)

// KeyList is an ordered set of entity keys. Insertion order is kept and a key
// appears at most once; Add is the only way in, so the uniqueness check lives
// here rather than at every call site.
type KeyList[K comparable] []K

// Contains reports whether key is in the list.
func (l KeyList[K]) Contains(key K) bool {
	for _, k := range l {
		if k == key {
			return true
		}
	}
	return false
}

// Add appends key, failing with CodeInvariantViolation when it is already present.
func (l *KeyList[K]) Add(key K) error {
	if l.Contains(key) {
		return dErrors.New(dErrors.CodeInvariantViolation, "key already present")
	}
	*l = append(*l, key)
	return nil
}

// Remove deletes key and reports whether it was present.
func (l *KeyList[K]) Remove(key K) bool {
	for i, k := range *l {
		if k == key {
			*l = append((*l)[:i:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (l KeyList[K]) Clone() KeyList[K] {
	if l == nil {
		return nil
	}
	return append(KeyList[K](nil), l...)
}
