// Command ikshell is a scriptable entry point over an ik.Solver: given a
// manipulator JSON binding and a target pose, it runs SolveOne and prints
// the result, and exposes the SS6 text command channel over stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.viam.com/utils"

	"github.com/ikshell-dev/ikcore/ik"
	frame "github.com/ikshell-dev/ikcore/referenceframe"
	"github.com/ikshell-dev/ikcore/spatialmath"
)

var logger = golog.NewDevelopmentLogger("ikshell")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// shellConfig holds the settings a YAML file loaded through viper can
// override -- mirrors the outer/inner config split of the teacher's own
// viper-backed config loader. Only IkThreshold is applied; LogLevel is read
// from the file but does not change the logger.
type shellConfig struct {
	IkThreshold float64 `mapstructure:"ikThreshold"`
	LogLevel    string  `mapstructure:"logLevel"`
}

func loadShellConfig(path string) (shellConfig, error) {
	cfg := shellConfig{IkThreshold: -1}
	if path == "" {
		return cfg, nil
	}
	vp := viper.New()
	vp.SetConfigFile(path)
	if err := vp.ReadInConfig(); err != nil {
		return cfg, err
	}
	if err := vp.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var manipulatorPath, shellConfigPath string
	var x, y, z float64
	var flavorName string
	var seed []float64
	var ignoreJointLimits, ignoreSelfCollisions bool

	rootCmd := &cobra.Command{
		Use:           "ikshell",
		Short:         "Run the analytical IK solver against a manipulator binding",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&manipulatorPath, "manipulator", "", "path to a manipulator JSON binding")
	rootCmd.PersistentFlags().StringVar(&shellConfigPath, "config", "", "optional YAML file overriding ikThreshold")
	if err := rootCmd.MarkPersistentFlagRequired("manipulator"); err != nil {
		return err
	}

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve for a single accepted configuration nearest a seed",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			manipulator, err := loadManipulator(manipulatorPath, shellConfigPath, logger)
			if err != nil {
				return err
			}
			pose, err := parseTargetPose(flavorName, x, y, z)
			if err != nil {
				return err
			}
			solver := &ik.Solver{
				Manipulator: manipulator,
				Kernel:      identityKernel,
				Robot:       &passthroughRobot{},
				Logger:      logger,
			}
			var flags ik.Flags
			if ignoreJointLimits {
				flags |= ik.IgnoreJointLimits
			}
			if ignoreSelfCollisions {
				flags |= ik.IgnoreSelfCollisions
			}
			ok, values, _, err := solver.SolveOne(pose, frame.FloatsToInputs(seed), flags)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no accepted configuration found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Trim(fmt.Sprint(frame.InputsToFloats(values)), "[]"))
			return nil
		},
	}
	solveCmd.Flags().StringVar(&flavorName, "flavor", "translation3d", "target pose flavor (spec.md SS4.A)")
	solveCmd.Flags().Float64Var(&x, "x", 0, "target translation X")
	solveCmd.Flags().Float64Var(&y, "y", 0, "target translation Y")
	solveCmd.Flags().Float64Var(&z, "z", 0, "target translation Z")
	solveCmd.Flags().Float64SliceVar(&seed, "seed", nil, "seed joint values, radians/mm")
	solveCmd.Flags().BoolVar(&ignoreJointLimits, "ignore-joint-limits", false, "set ik.IgnoreJointLimits")
	solveCmd.Flags().BoolVar(&ignoreSelfCollisions, "ignore-self-collisions", false, "set ik.IgnoreSelfCollisions")

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Drive the SS6 text command channel from stdin",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			manipulator, err := loadManipulator(manipulatorPath, shellConfigPath, logger)
			if err != nil {
				return err
			}
			ch := &ik.CommandChannel{Manipulator: manipulator}
			return runShell(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), ch, logger)
		},
	}

	rootCmd.AddCommand(solveCmd, shellCmd)
	rootCmd.SetArgs(args[1:])
	return rootCmd.ExecuteContext(ctx)
}

func loadManipulator(manipulatorPath, shellConfigPath string, logger golog.Logger) (*frame.Manipulator, error) {
	manipulator, err := frame.ParseManipulatorJSONFile(manipulatorPath)
	if err != nil {
		return nil, err
	}
	cfg, err := loadShellConfig(shellConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.IkThreshold >= 0 {
		manipulator.IKThreshold = cfg.IkThreshold
		logger.Infof("overriding ikThreshold to %f from %s", cfg.IkThreshold, shellConfigPath)
	}
	return manipulator, nil
}

func parseTargetPose(flavorName string, x, y, z float64) (spatialmath.Parameterization, error) {
	flavor, err := spatialmath.ParseFlavor(flavorName)
	if err != nil {
		return spatialmath.Parameterization{}, err
	}
	return spatialmath.Parameterization{Flavor: flavor, Translation: r3.Vector{X: x, Y: y, Z: z}}, nil
}

// runShell reads newline-delimited commands from r, dispatches each through
// ch, and writes the reply (or error) to w, until r is exhausted or ctx is
// cancelled.
func runShell(ctx context.Context, r io.Reader, w io.Writer, ch *ik.CommandChannel, logger golog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, err := ch.Command(nil, line)
		if err != nil {
			logger.Warnf("command %q failed: %v", line, err)
			fmt.Fprintf(w, "ERROR %v\n", err)
			continue
		}
		fmt.Fprintln(w, reply)
	}
	return scanner.Err()
}

// identityKernel is a placeholder analytical kernel for the "solve" command:
// it treats the free parameter as the sole active DOF's raw value, good
// enough to exercise the shell end to end against a single-free-joint
// manipulator binding without linking in a real ikfast plugin.
func identityKernel(eetrans, eerot, free []float64) ([]ik.RawSolution, error) {
	return []ik.RawSolution{{Values: free}}, nil
}

// passthroughRobot is a minimal ik.Robot that reports no collisions and
// forwards inputs nowhere -- it exists so `ikshell solve` can exercise the
// solver shell without a real robot backing it.
type passthroughRobot struct {
	current []frame.Input
}

func (r *passthroughRobot) SetActiveDOFs(armIndices []int) (ik.ActiveDOFSaver, error) {
	return noopCloser{}, nil
}

func (r *passthroughRobot) SetInputs(values []frame.Input) error {
	r.current = values
	return nil
}

func (r *passthroughRobot) Transform() (eetrans [3]float64, eerot [9]float64, err error) {
	eerot = spatialmath.NewZeroPose().RotationMatrix()
	for i, v := range r.current {
		if i == 0 {
			eetrans[0] = v.Value
		}
	}
	return eetrans, eerot, nil
}

func (r *passthroughRobot) JointWeight(armSlot int) float64    { return 1 }
func (r *passthroughRobot) IsJointCircular(armSlot int) bool   { return false }
func (r *passthroughRobot) LinkEnabled(link string) bool       { return true }
func (r *passthroughRobot) SetLinkEnabled(string, bool) error  { return nil }
func (r *passthroughRobot) GrabbedBodies() []string            { return nil }
func (r *passthroughRobot) GrabbedBodyEnabled(string) bool     { return false }
func (r *passthroughRobot) SetGrabbedBodyEnabled(string, bool) error {
	return nil
}
func (r *passthroughRobot) SetSelfCollisionMode() error      { return nil }
func (r *passthroughRobot) SetEnvironmentCollisionMode() error { return nil }
func (r *passthroughRobot) SelfCollision(ik.CollisionCallback) (bool, error) {
	return false, nil
}
func (r *passthroughRobot) EnvironmentCollision() (bool, error) { return false, nil }
func (r *passthroughRobot) EndEffectorCollision() (bool, error) { return false, nil }

type noopCloser struct{}

func (noopCloser) Close() error { return nil }
