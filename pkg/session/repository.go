package session

import "context"

// Repository keeps session states between reruns.
// Load returns nil, nil when no state exists for the key.
type Repository interface {
	Load(ctx context.Context, key Key) (*State, error)
	Save(ctx context.Context, key Key, state *State) error
	Delete(ctx context.Context, key Key) error
}
