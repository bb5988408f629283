package engine

import "sync"

// Registry owns one Book per traded symbol, created lazily on first
// reference.
type Registry struct {
	mu     sync.Mutex
	scale  Scale
	books  map[string]*Book
}

// NewRegistry creates a registry where every book created through it shares
// the same price scale.
func NewRegistry(scale Scale) *Registry {
	return &Registry{
		scale: scale,
		books: make(map[string]*Book),
	}
}

// GetOrCreate returns the book for symbol, creating it if this is the first
// reference.
func (r *Registry) GetOrCreate(symbol string) *Book {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.books[symbol]; ok {
		return b
	}
	b := NewBook(r.scale)
	r.books[symbol] = b
	return b
}

// Get returns the book for symbol, or false if none has been created yet.
func (r *Registry) Get(symbol string) (*Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[symbol]
	return b, ok
}

// Symbols returns every symbol with a live book.
func (r *Registry) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	return out
}
