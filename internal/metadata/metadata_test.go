package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const kernelDoc = `
name: copy_image
args:
  - typeName: image2d_t
    name: src
    addressSpace: global
    readable: true
    size: 8
    offset: 0
  - typeName: image2d_t
    name: dst
    addressSpace: global
    writable: true
    size: 8
    offset: 8
bindings:
  - kind: image
    slots: [0]
  - kind: image
    slots: [0]
inputsRegion: 0
workPropertiesRegion: 1
numReadOnlySlots: 1
numReadWriteSlots: 1
inputsSize: 16
requiredLocalSize: [8, 8, 1]
localSizeHint: [0, 0, 0]
`

func TestCompiledKernelYAML(t *testing.T) {
	var ck CompiledKernel
	require.NoError(t, yaml.Unmarshal([]byte(kernelDoc), &ck))
	require.NoError(t, ck.Validate())

	assert.Equal(t, "copy_image", ck.Name)
	require.Len(t, ck.Args, 2)
	assert.Equal(t, AddressGlobal, ck.Args[0].AddressSpace)
	assert.Equal(t, BindImage, ck.Bindings[1].Kind)
	assert.Equal(t, []int{0}, ck.Bindings[1].Slots)

	dims, ok := ck.RequiredLocalDims()
	assert.True(t, ok)
	assert.Equal(t, [3]uint16{8, 8, 1}, dims)

	_, ok = ck.LocalDimsHint()
	assert.False(t, ok)
}

func TestAddressSpaceYAML(t *testing.T) {
	t.Run("unknown space rejected", func(t *testing.T) {
		var a AddressSpace
		err := yaml.Unmarshal([]byte("generic"), &a)
		assert.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		out, err := yaml.Marshal(AddressLocal)
		require.NoError(t, err)
		var a AddressSpace
		require.NoError(t, yaml.Unmarshal(out, &a))
		assert.Equal(t, AddressLocal, a)
	})
}

func TestConstBlobYAML(t *testing.T) {
	t.Run("base64 data decoded", func(t *testing.T) {
		var cb ConstBlob
		require.NoError(t, yaml.Unmarshal([]byte("slot: 1\ndata: AAAAPwAAAD8AAAA/AAAAPw==\n"), &cb))
		assert.Equal(t, 1, cb.Slot)
		assert.Len(t, cb.Data, 16)
		assert.Equal(t, []byte{0, 0, 0, 0x3F}, cb.Data[:4])
	})

	t.Run("round trip", func(t *testing.T) {
		out, err := yaml.Marshal(ConstBlob{Slot: 2, Data: []byte{1, 2, 3}})
		require.NoError(t, err)
		var cb ConstBlob
		require.NoError(t, yaml.Unmarshal(out, &cb))
		assert.Equal(t, ConstBlob{Slot: 2, Data: []byte{1, 2, 3}}, cb)
	})

	t.Run("malformed base64 rejected", func(t *testing.T) {
		var cb ConstBlob
		err := yaml.Unmarshal([]byte("slot: 0\ndata: '%%%'\n"), &cb)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *CompiledKernel {
		var ck CompiledKernel
		require.NoError(t, yaml.Unmarshal([]byte(kernelDoc), &ck))
		return &ck
	}

	t.Run("binding count mismatch", func(t *testing.T) {
		ck := valid()
		ck.Bindings = ck.Bindings[:1]
		assert.Error(t, ck.Validate())
	})

	t.Run("read-only image slot out of range", func(t *testing.T) {
		ck := valid()
		ck.Bindings[0].Slots = []int{3}
		assert.Error(t, ck.Validate())
	})

	t.Run("arg storage exceeds inputs size", func(t *testing.T) {
		ck := valid()
		ck.Args[1].Offset = 12
		assert.Error(t, ck.Validate())
	})

	t.Run("const blob slot out of range", func(t *testing.T) {
		ck := valid()
		ck.ConstBlobs = []ConstBlob{{Slot: 5, Data: []byte{1}}}
		assert.Error(t, ck.Validate())
	})
}
