//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/fluxgpu/clrt/fixtures"
	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/config"
	"github.com/fluxgpu/clrt/internal/kernel"
	"github.com/fluxgpu/clrt/internal/logger"
	"github.com/fluxgpu/clrt/internal/program"
	"github.com/fluxgpu/clrt/internal/resource"
)

func TestKernelLifecycle_EndToEnd(t *testing.T) {
	var p *program.Program

	app := fxtest.New(t,
		fx.Provide(
			func() *config.Config {
				cfg := config.Default()
				cfg.Logger.Verbosity = "debug"
				return cfg
			},
			func(cfg *config.Config) (*zap.Logger, error) {
				return logger.New(cfg.Logger.Verbosity, cfg.Logger.Encoding)
			},
			func(log *zap.Logger, cfg *config.Config) (*program.Program, error) {
				d, err := program.LoadDescriptor(fixtures.VectorOpsDescriptor)
				if err != nil {
					return nil, err
				}
				prog, err := program.FromDescriptor(log, d)
				if err != nil {
					return nil, err
				}
				for _, dev := range prog.Devices() {
					dev.Limits = cfg.Limits()
				}
				return prog, nil
			},
		),
		fx.Populate(&p),
	)
	app.RequireStart()
	defer app.RequireStop()

	kernels, total, err := kernel.CreateKernelsInProgram(p, 0)
	require.NoError(t, err)
	assert.Nil(t, kernels)
	require.Equal(t, 2, total)

	kernels, _, err = kernel.CreateKernelsInProgram(p, total)
	require.NoError(t, err)
	require.Len(t, kernels, 2)
	defer func() {
		for _, k := range kernels {
			if k.RefCount() > 0 {
				k.Release()
			}
		}
	}()

	byName := map[string]*kernel.Kernel{}
	for _, k := range kernels {
		byName[k.FunctionName()] = k
	}

	scale := byName["vec_scale"]
	require.NotNil(t, scale)

	buf, err := resource.NewBuffer(cl.MemReadWrite, 1024, nil)
	require.NoError(t, err)
	require.NoError(t, scale.SetArg(0, cl.HandleSize, buf))
	require.NoError(t, scale.SetArg(1, 4, []byte{0, 0, 0x80, 0x3F}))
	require.NoError(t, scale.SetArg(2, 512, nil))
	assert.EqualValues(t, 512, scale.LocalMemSize())

	clone := scale.Clone()
	require.NoError(t, clone.SetArg(2, 64, nil))
	assert.EqualValues(t, 512, scale.LocalMemSize())
	assert.EqualValues(t, 64, clone.LocalMemSize())
	clone.Release()

	blur := byName["blur2d"]
	require.NotNil(t, blur)
	// the embedded constant sampler and blob arrive pre-bound
	assert.NotNil(t, blur.SamplerSlots()[1])
	require.NotNil(t, blur.ReadWriteSlots()[1])
	assert.Len(t, blur.ReadWriteSlots()[1].HostData(), 16)

	img, err := resource.NewImage(cl.MemObjectImage2D, cl.MemReadOnly,
		cl.ImageFormat{ChannelOrder: cl.ChannelRGBA, ChannelType: cl.ChannelUNormInt8}, 4096)
	require.NoError(t, err)
	require.NoError(t, blur.SetArg(0, cl.HandleSize, img))
	assert.Same(t, img, blur.ReadOnlySlots()[0])

	live := p.LiveKernels()
	for _, k := range kernels {
		assert.True(t, k.Release())
	}
	assert.Equal(t, live-int64(len(kernels)), p.LiveKernels())
}
