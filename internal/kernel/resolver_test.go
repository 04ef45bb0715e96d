package kernel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/program"
)

func TestCreateKernel(t *testing.T) {
	t.Run("nil program", func(t *testing.T) {
		_, err := CreateKernel(nil, "scale")
		assert.True(t, errors.Is(err, cl.InvalidProgram))
	})

	t.Run("no eligible device reports no-executable, never not-found", func(t *testing.T) {
		failed := &program.BuildData{Status: program.BuildError, BinaryType: program.BinaryExecutable}
		library := &program.BuildData{Status: program.BuildSuccess, BinaryType: program.BinaryLibrary}
		p := testProgram(t, failed, library, nil)

		_, err := CreateKernel(p, "anything")
		assert.True(t, errors.Is(err, cl.InvalidExecutable))
	})

	t.Run("eligible devices without the name report not-found", func(t *testing.T) {
		p := testProgram(t, executableBuild(scaleKernel()))
		_, err := CreateKernel(p, "missing")
		assert.True(t, errors.Is(err, cl.InvalidKernelName))
	})

	t.Run("argument count mismatch across devices", func(t *testing.T) {
		short := scaleKernel()
		short.Args = short.Args[:2]
		short.Bindings = short.Bindings[:2]
		p := testProgram(t, executableBuild(scaleKernel()), executableBuild(short))

		_, err := CreateKernel(p, "scale")
		assert.True(t, errors.Is(err, cl.InvalidKernelDef))
	})

	t.Run("single field mismatch across devices", func(t *testing.T) {
		altered := scaleKernel()
		altered.Args[1].IsVolatile = true
		p := testProgram(t, executableBuild(scaleKernel()), executableBuild(altered))

		_, err := CreateKernel(p, "scale")
		assert.True(t, errors.Is(err, cl.InvalidKernelDef))
	})

	t.Run("identical signatures across devices succeed", func(t *testing.T) {
		// different layout, same signature: still one kernel
		relaid := scaleKernel()
		relaid.Args[1].Offset = 12
		p := testProgram(t, executableBuild(scaleKernel()), executableBuild(relaid))

		k, err := CreateKernel(p, "scale")
		require.NoError(t, err)
		defer k.Release()
		assert.Equal(t, "scale", k.FunctionName())
	})

	t.Run("matched entry without compiled form reports out-of-resources", func(t *testing.T) {
		bd := executableBuild()
		bd.Kernels["scale"] = nil
		p := testProgram(t, bd)

		_, err := CreateKernel(p, "scale")
		assert.True(t, errors.Is(err, cl.OutOfResources))
	})

	t.Run("ineligible devices are skipped, not failed", func(t *testing.T) {
		inProgress := &program.BuildData{Status: program.BuildInProgress, BinaryType: program.BinaryExecutable}
		p := testProgram(t, inProgress, executableBuild(scaleKernel()))

		k, err := CreateKernel(p, "scale")
		require.NoError(t, err)
		defer k.Release()
	})
}

func TestCreateKernelsInProgram(t *testing.T) {
	t.Run("empty union reports no-executable", func(t *testing.T) {
		p := testProgram(t, nil)
		_, _, err := CreateKernelsInProgram(p, 0)
		assert.True(t, errors.Is(err, cl.InvalidExecutable))
	})

	t.Run("zero capacity only counts", func(t *testing.T) {
		p := testProgram(t, executableBuild(scaleKernel(), blurKernel()))
		kernels, total, err := CreateKernelsInProgram(p, 0)
		require.NoError(t, err)
		assert.Nil(t, kernels)
		assert.Equal(t, 2, total)
		assert.EqualValues(t, 0, p.LiveKernels())
	})

	t.Run("capacity too small", func(t *testing.T) {
		p := testProgram(t, executableBuild(scaleKernel(), blurKernel()))
		_, total, err := CreateKernelsInProgram(p, 1)
		assert.True(t, errors.Is(err, cl.InvalidValue))
		assert.Equal(t, 2, total)
	})

	t.Run("union across devices in name order", func(t *testing.T) {
		p := testProgram(t,
			executableBuild(scaleKernel()),
			executableBuild(scaleKernel(), blurKernel()))

		kernels, total, err := CreateKernelsInProgram(p, 2)
		require.NoError(t, err)
		require.Len(t, kernels, 2)
		assert.Equal(t, 2, total)
		assert.Equal(t, "blur", kernels[0].FunctionName())
		assert.Equal(t, "scale", kernels[1].FunctionName())
		for _, k := range kernels {
			k.Release()
		}
	})

	t.Run("first failure releases this call's instances", func(t *testing.T) {
		bd := executableBuild(scaleKernel())
		bd.Kernels["zz_broken"] = nil // sorts after scale, fails to construct
		p := testProgram(t, bd)

		_, total, err := CreateKernelsInProgram(p, 2)
		assert.True(t, errors.Is(err, cl.OutOfResources))
		assert.Equal(t, 2, total)
		assert.EqualValues(t, 0, p.LiveKernels())
	})
}

func TestSignatureCheckUsesAllDevices(t *testing.T) {
	// first two devices agree, third differs: still a definition mismatch
	altered := scaleKernel()
	altered.Args[0].TypeName = "int*"
	p := testProgram(t,
		executableBuild(scaleKernel()),
		executableBuild(scaleKernel()),
		executableBuild(altered))

	_, err := CreateKernel(p, "scale")
	assert.True(t, errors.Is(err, cl.InvalidKernelDef))
}
