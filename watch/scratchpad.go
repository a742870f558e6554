package watch

import (
	"context"
	"sync"
)

// Scratchpad manages a small persisted region shared by several bit-packed
// stores. Each store registers its byte size once at startup and gets back
// a section at a stable offset; offsets are assigned in registration order,
// so the registration sequence is part of the on-disk layout and must not
// change between runs.
type Scratchpad struct {
	mu       sync.Mutex
	store    Store
	buf      []byte
	sections map[string]*Section
}

// Section is one registered slice of the scratchpad. Bit offsets are
// relative to the section start and bounded by its registered size.
type Section struct {
	pad    *Scratchpad
	offset int
	size   int
}

func NewScratchpad(store Store) *Scratchpad {
	return &Scratchpad{store: store, sections: make(map[string]*Section)}
}

// Register reserves size bytes after everything registered so far. Call
// before Load. Registering the same name twice returns the existing
// section unchanged.
func (p *Scratchpad) Register(name string, size int) *Section {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sections[name]; ok {
		return s
	}
	s := &Section{pad: p, offset: len(p.buf), size: size}
	p.buf = append(p.buf, make([]byte, size)...)
	p.sections[name] = s
	return s
}

// Load replaces the in-memory region with the persisted copy. A persisted
// copy whose length does not match the registered layout is ignored and the
// region keeps its zeroed defaults; this is what makes layout growth safe.
func (p *Scratchpad) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := p.store.GetScratchpadData(ctx, 0, len(p.buf))
	if err != nil {
		return err
	}
	if len(data) != len(p.buf) {
		return nil
	}
	copy(p.buf, data)
	return nil
}

// Save writes the whole region back to the store.
func (p *Scratchpad) Save(ctx context.Context) error {
	p.mu.Lock()
	data := make([]byte, len(p.buf))
	copy(data, p.buf)
	p.mu.Unlock()
	return p.store.SetScratchpadData(ctx, data, 0)
}

// Offset returns the section's byte offset within the region.
func (s *Section) Offset() int { return s.offset }

// ReadBits reads a bit field from the section.
func (s *Section) ReadBits(bitOffset, width int) uint32 {
	s.pad.mu.Lock()
	defer s.pad.mu.Unlock()
	return ReadBits(s.pad.buf[s.offset:s.offset+s.size], bitOffset, width)
}

// WriteBits writes a bit field into the section.
func (s *Section) WriteBits(bitOffset, width int, value uint32) {
	s.pad.mu.Lock()
	defer s.pad.mu.Unlock()
	WriteBits(s.pad.buf[s.offset:s.offset+s.size], bitOffset, width, value)
}
