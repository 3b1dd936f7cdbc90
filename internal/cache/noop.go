package cache

import "context"

// NoOpStore is used when caching is disabled.
type NoOpStore struct{}

func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

func (n *NoOpStore) Get(context.Context, string) ([]byte, bool) {
	return nil, false
}

func (n *NoOpStore) Set(context.Context, string, []byte) {}

func (n *NoOpStore) Delete(context.Context, string) {}

func (n *NoOpStore) Clear(context.Context) {}

func (n *NoOpStore) Size(context.Context) int {
	return 0
}
