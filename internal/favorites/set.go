package favorites

import (
	"context"
	"fmt"
	"slices"
)

// DefaultKey names the favorites list of an anonymous visitor.
const DefaultKey = "favourites"

// KeyFor returns the store key of an identity's favorites list.
func KeyFor(identity string) string {
	if identity == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + identity
}

// Store persists one list of listing names per key.
type Store interface {
	Load(ctx context.Context, key string) ([]string, error)
	Save(ctx context.Context, key string, names []string) error
}

// Set is the favorited listing names of one visitor. It is not safe for
// concurrent use.
type Set struct {
	key   string
	store Store
	names []string
	index map[string]struct{}
}

// Load initialises a set from the store's current contents.
func Load(ctx context.Context, store Store, key string) (*Set, error) {
	stored, err := store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFavorites, err)
	}

	s := &Set{key: key, store: store, index: make(map[string]struct{}, len(stored))}
	for _, name := range stored {
		if _, dup := s.index[name]; dup {
			continue
		}
		s.index[name] = struct{}{}
		s.names = append(s.names, name)
	}
	return s, nil
}

// Toggle flips membership of name and writes the whole list through. On a
// failed write the set is left as it was. It returns the new membership.
func (s *Set) Toggle(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}

	prev := s.names
	_, member := s.index[name]

	var next []string
	if member {
		next = slices.DeleteFunc(slices.Clone(prev), func(n string) bool { return n == name })
	} else {
		next = append(slices.Clone(prev), name)
	}

	if err := s.store.Save(ctx, s.key, next); err != nil {
		return member, fmt.Errorf("%w: %w", ErrSaveFavorites, err)
	}

	s.names = next
	if member {
		delete(s.index, name)
	} else {
		s.index[name] = struct{}{}
	}
	return !member, nil
}

func (s *Set) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// All returns the names in the order they were added.
func (s *Set) All() []string {
	return slices.Clone(s.names)
}

func (s *Set) Len() int { return len(s.names) }

func (s *Set) Key() string { return s.key }
