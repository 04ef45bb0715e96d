package resource

import (
	"fmt"
	"sync/atomic"

	"github.com/fluxgpu/clrt/internal/cl"
)

// SamplerDesc is a sampler configuration in the client-facing enumeration
// space.
type SamplerDesc struct {
	NormalizedCoords bool
	AddressingMode   cl.AddressingMode
	FilterMode       cl.FilterMode
}

// Sampler is a reference-counted sampler object.
type Sampler struct {
	desc SamplerDesc
	refs atomic.Int32
}

// NewSampler creates a sampler from a client-facing description.
func NewSampler(desc SamplerDesc) *Sampler {
	s := &Sampler{desc: desc}
	s.refs.Store(1)
	return s
}

// Desc reports the sampler's configuration.
func (s *Sampler) Desc() SamplerDesc { return s.desc }

// Retain increments the reference count.
func (s *Sampler) Retain() { s.refs.Add(1) }

// Release decrements the reference count. Reports whether this call
// destroyed the sampler.
func (s *Sampler) Release() bool {
	n := s.refs.Add(-1)
	if n < 0 {
		panic(fmt.Sprintf("resource: over-release of sampler (refs=%d)", n))
	}
	return n == 0
}

// RefCount reports the current reference count.
func (s *Sampler) RefCount() int32 { return s.refs.Load() }
