package kernel

import (
	"sort"
	"time"

	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/metadata"
	"github.com/fluxgpu/clrt/internal/metrics"
	"github.com/fluxgpu/clrt/internal/program"
)

// CreateKernel resolves name against every device the program is associated
// with, certifies that the argument signature is identical across all
// matches, and constructs an instance from the first match.
//
// The whole resolution runs under the program lock, so a build mutating the
// table concurrently is simply ineligible for this call.
func CreateKernel(p *program.Program, name string) (*Kernel, error) {
	if p == nil {
		return nil, cl.Errorf(cl.InvalidProgram, "nil program")
	}
	start := time.Now()
	k, err := createKernelLocked(p, name)
	if err != nil {
		metrics.KernelCreateErrors.WithLabelValues(cl.StatusOf(err).String()).Inc()
		return nil, err
	}
	metrics.KernelCreateDuration.Observe(float64(time.Since(start).Microseconds()))
	return k, nil
}

func createKernelLocked(p *program.Program, name string) (*Kernel, error) {
	var resolved *metadata.CompiledKernel
	var resolveErr error

	p.Locked(func() {
		devicesWithProgram, devicesWithKernel := 0, 0
		for _, dev := range p.Devices() {
			bd := p.BuildDataFor(dev)
			if !bd.Executable() {
				continue
			}
			devicesWithProgram++

			meta, ok := bd.Kernels[name]
			if !ok {
				continue
			}
			devicesWithKernel++

			if resolved != nil && meta != nil {
				if len(resolved.Args) != len(meta.Args) {
					resolveErr = p.ReportError(cl.InvalidKernelDef,
						"kernel %q: argument count differs between devices (%d vs %d)",
						name, len(resolved.Args), len(meta.Args))
					return
				}
				if !metadata.SignaturesEqual(resolved.Args, meta.Args) {
					resolveErr = p.ReportError(cl.InvalidKernelDef,
						"kernel %q: argument signature differs between devices", name)
					return
				}
			}
			resolved = meta
			if resolved == nil {
				resolveErr = p.ReportError(cl.OutOfResources, "kernel %q failed to compile", name)
				return
			}
		}
		if devicesWithProgram == 0 {
			resolveErr = p.ReportError(cl.InvalidExecutable, "no executable available for program")
			return
		}
		if devicesWithKernel == 0 {
			resolveErr = p.ReportError(cl.InvalidKernelName, "no kernel named %q found", name)
			return
		}
	})

	if resolveErr != nil {
		return nil, resolveErr
	}
	return newKernel(p, name, resolved)
}

// CreateKernelsInProgram instantiates every kernel name any eligible device's
// executable carries, in lexical name order. With capacity zero it only
// counts. A nonzero capacity smaller than the name set fails with
// InvalidValue before anything is constructed. The first per-name failure
// aborts the batch; instances this call already constructed are released, so
// the caller sees all requested kernels or none of this call's.
//
// Returns the constructed kernels (nil when capacity is zero) and the total
// name count.
func CreateKernelsInProgram(p *program.Program, capacity int) ([]*Kernel, int, error) {
	if p == nil {
		return nil, 0, cl.Errorf(cl.InvalidProgram, "nil program")
	}

	var names []string
	var enumErr error
	p.Locked(func() {
		seen := make(map[string]struct{})
		for _, dev := range p.Devices() {
			bd := p.BuildDataFor(dev)
			if !bd.Executable() {
				continue
			}
			for name := range bd.Kernels {
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					names = append(names, name)
				}
			}
		}
		if len(names) == 0 {
			enumErr = p.ReportError(cl.InvalidExecutable, "no executable available for program")
			return
		}
		if capacity != 0 && capacity < len(names) {
			enumErr = p.ReportError(cl.InvalidValue,
				"capacity %d is too small for %d kernels", capacity, len(names))
		}
	})
	if enumErr != nil {
		if cl.StatusOf(enumErr) == cl.InvalidValue {
			return nil, len(names), enumErr
		}
		return nil, 0, enumErr
	}
	sort.Strings(names)

	if capacity == 0 {
		return nil, len(names), nil
	}

	kernels := make([]*Kernel, 0, len(names))
	for _, name := range names {
		k, err := CreateKernel(p, name)
		if err != nil {
			for _, created := range kernels {
				created.Release()
			}
			return nil, len(names), err
		}
		kernels = append(kernels, k)
	}
	return kernels, len(names), nil
}
