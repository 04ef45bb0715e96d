// Package resource provides the memory-object and sampler collaborators the
// binding core consumes: reference-counted handles with the runtime queries
// (kind, access flags, pixel format) argument validation needs.
package resource

import (
	"fmt"
	"sync/atomic"

	"github.com/fluxgpu/clrt/internal/cl"
)

// Object is a memory object: a generic buffer or an image of a specific
// shape. Reference counting is atomic and safe from any thread; the last
// Release drops the host copy.
type Object struct {
	kind   cl.MemObjectType
	flags  cl.MemFlags
	size   int
	format cl.ImageFormat
	data   []byte
	refs   atomic.Int32
}

// NewBuffer creates a generic buffer object. With MemCopyHostPtr, hostData is
// copied at creation; the object keeps no alias to the caller's slice.
func NewBuffer(flags cl.MemFlags, size int, hostData []byte) (*Object, error) {
	if size <= 0 {
		return nil, cl.Errorf(cl.InvalidValue, "buffer size must be positive, got %d", size)
	}
	if flags&cl.MemCopyHostPtr != 0 && len(hostData) < size {
		return nil, cl.Errorf(cl.InvalidValue,
			"copy-init buffer needs %d host bytes, got %d", size, len(hostData))
	}
	obj := &Object{
		kind:  cl.MemObjectBuffer,
		flags: flags,
		size:  size,
	}
	if flags&cl.MemCopyHostPtr != 0 {
		obj.data = make([]byte, size)
		copy(obj.data, hostData)
	}
	obj.refs.Store(1)
	return obj, nil
}

// NewImage creates an image object of the given shape and pixel format.
func NewImage(kind cl.MemObjectType, flags cl.MemFlags, format cl.ImageFormat, size int) (*Object, error) {
	if kind == cl.MemObjectBuffer {
		return nil, cl.Errorf(cl.InvalidValue, "image kind must not be buffer")
	}
	if size <= 0 {
		return nil, cl.Errorf(cl.InvalidValue, "image size must be positive, got %d", size)
	}
	obj := &Object{
		kind:   kind,
		flags:  flags,
		size:   size,
		format: format,
	}
	obj.refs.Store(1)
	return obj, nil
}

// Kind reports the runtime object kind (buffer vs. specific image shape).
func (o *Object) Kind() cl.MemObjectType { return o.kind }

// Flags reports the allocation/access flags.
func (o *Object) Flags() cl.MemFlags { return o.flags }

// Format reports the pixel format. Meaningful for images only.
func (o *Object) Format() cl.ImageFormat { return o.format }

// Size reports the byte size of the object.
func (o *Object) Size() int { return o.size }

// HostData exposes the copy-initialized contents, if any.
func (o *Object) HostData() []byte { return o.data }

// Retain increments the reference count.
func (o *Object) Retain() { o.refs.Add(1) }

// Release decrements the reference count and frees the host copy when the
// last reference drops. Reports whether this call destroyed the object.
func (o *Object) Release() bool {
	n := o.refs.Add(-1)
	if n < 0 {
		panic(fmt.Sprintf("resource: over-release of memory object (refs=%d)", n))
	}
	if n == 0 {
		o.data = nil
		return true
	}
	return false
}

// RefCount reports the current reference count.
func (o *Object) RefCount() int32 { return o.refs.Load() }
