package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fluxgpu/clrt/fixtures"
	"github.com/fluxgpu/clrt/internal/config"
	"github.com/fluxgpu/clrt/internal/kernel"
	"github.com/fluxgpu/clrt/internal/logger"
	"github.com/fluxgpu/clrt/internal/program"
)

func main() {
	var configPath string
	var descriptorPath string
	var cfg *config.Config
	var rootLogger *zap.Logger

	app := &cli.App{
		Name:  "clinspect",
		Usage: "Inspect the kernels of a built compute program descriptor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to a runtime config file",
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "descriptor",
				Usage:       "Path to a program descriptor (defaults to the bundled sample)",
				Destination: &descriptorPath,
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			if configPath != "" {
				cfg, err = config.LoadConfig(configPath)
				if err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}
			zapLogger, err := logger.New(cfg.Logger.Verbosity, cfg.Logger.Encoding)
			if err != nil {
				return err
			}
			rootLogger = zapLogger.Named("clinspect")
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "kernels",
				Usage: "List every kernel the program's executables carry",
				Action: func(c *cli.Context) error {
					p, err := loadProgram(rootLogger, descriptorPath, cfg)
					if err != nil {
						return err
					}
					figure.NewFigure("clinspect", "", true).Print()
					fmt.Println("")

					kernels, total, err := kernel.CreateKernelsInProgram(p, 0)
					if err != nil {
						return err
					}
					kernels, _, err = kernel.CreateKernelsInProgram(p, total)
					if err != nil {
						return err
					}
					defer releaseAll(kernels)

					fmt.Printf("%d kernel(s):\n", total)
					for _, k := range kernels {
						table := k.Table()
						fmt.Printf("  %-20s args=%-2d cbs=%d ro=%d rw=%d samplers=%d\n",
							k.FunctionName(), k.NumArgs(), table.NumConstantBuffers,
							len(table.ReadOnly), len(table.ReadWrite), table.NumSamplers)
					}
					return nil
				},
			},
			{
				Name:      "args",
				Usage:     "Show per-argument metadata for one kernel",
				ArgsUsage: "<kernel-name>",
				Action: func(c *cli.Context) error {
					k, err := loadKernel(rootLogger, descriptorPath, cfg, c.Args().First())
					if err != nil {
						return err
					}
					defer k.Release()

					fmt.Printf("kernel %s (%d args)\n", k.FunctionName(), k.NumArgs())
					for i := 0; i < k.NumArgs(); i++ {
						addr, _ := k.ArgAddressQualifier(i)
						access, _ := k.ArgAccessQualifier(i)
						typeName, _ := k.ArgTypeName(i)
						qual, _ := k.ArgTypeQualifier(i)
						name, err := k.ArgName(i)
						if err != nil {
							name = "<not available>"
						}
						fmt.Printf("  [%d] %-16s %-10s addr=%#x access=%#x qual=%#x\n",
							i, typeName, name, uint32(addr), uint32(access), uint64(qual))
					}
					return nil
				},
			},
			{
				Name:      "workgroup",
				Usage:     "Show work-group sizing for one kernel",
				ArgsUsage: "<kernel-name>",
				Action: func(c *cli.Context) error {
					k, err := loadKernel(rootLogger, descriptorPath, cfg, c.Args().First())
					if err != nil {
						return err
					}
					defer k.Release()

					dev := k.Program().Devices()[0]
					fmt.Printf("kernel %s on %s\n", k.FunctionName(), dev.Name)
					fmt.Printf("  max work group size:      %d\n", k.WorkGroupSize(dev))
					fmt.Printf("  preferred size multiple:  %d\n", k.PreferredWorkGroupSizeMultiple(dev))
					fmt.Printf("  compile work group size:  %v\n", k.CompileWorkGroupSize())
					fmt.Printf("  work group size hint:     %v\n", k.WorkGroupSizeHint())
					fmt.Printf("  local mem size:           %d\n", k.LocalMemSize())
					fmt.Printf("  private mem size:         %d\n", k.PrivateMemSize())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		if rootLogger != nil {
			rootLogger.Fatal("failed to run app", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadProgram(log *zap.Logger, descriptorPath string, cfg *config.Config) (*program.Program, error) {
	data := fixtures.VectorOpsDescriptor
	if descriptorPath != "" {
		var err error
		data, err = os.ReadFile(descriptorPath)
		if err != nil {
			return nil, err
		}
	}
	d, err := program.LoadDescriptor(data)
	if err != nil {
		return nil, err
	}
	p, err := program.FromDescriptor(log, d)
	if err != nil {
		return nil, err
	}
	for _, dev := range p.Devices() {
		dev.Limits = cfg.Limits()
	}
	return p, nil
}

func loadKernel(log *zap.Logger, descriptorPath string, cfg *config.Config, name string) (*kernel.Kernel, error) {
	if name == "" {
		return nil, fmt.Errorf("kernel name required")
	}
	p, err := loadProgram(log, descriptorPath, cfg)
	if err != nil {
		return nil, err
	}
	return kernel.CreateKernel(p, name)
}

func releaseAll(kernels []*kernel.Kernel) {
	for _, k := range kernels {
		k.Release()
	}
}
