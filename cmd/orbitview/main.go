// orbitview - Terminal 3D Model Viewer
// Orbit around OBJ, STL and glTF meshes drawn by a software rasterizer.
//
// Controls:
//
//	Arrows / WASD - Rotate model (yaw/pitch)
//	+/-           - Zoom in/out
//	Space         - Toggle auto-rotate
//	R             - Reset view
//	X             - Toggle wireframe mode
//	G             - Toggle axes and bounding box
//	?             - Toggle HUD overlay
//	Q / Esc       - Quit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Set by the release build.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// settingsFlags are shared by every command that draws a mesh.
type settingsFlags struct {
	configPath string
	background string
	baseColor  string
	fps        int
	workers    int
	fov        float64
	wireframe  bool
	autoRotate bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Path to a JSON config file")
	fl.StringVar(&f.background, "bg", "", "Background color R,G,B (default 30,30,40)")
	fl.StringVar(&f.baseColor, "color", "", "Surface color R,G,B (default 200,200,200)")
	fl.IntVar(&f.workers, "workers", 0, "Rasterizer row bands (default: NumCPU)")
	fl.Float64Var(&f.fov, "fov", 0, "Vertical field of view in degrees (default 45)")
	fl.BoolVar(&f.wireframe, "wireframe", false, "Start in wireframe mode")
}

func newRootCmd() *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "orbitview <model.obj|model.stl|model.glb>",
		Short: "Terminal 3D model viewer",
		Long:  "View OBJ, STL and glTF meshes in your terminal with an orbit camera and a depth-buffered software rasterizer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(flags)
			if err != nil {
				return err
			}
			mesh, err := loadModel(args[0], cfg.ModelSize)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), cfg, mesh)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.fps, "fps", 0, "Target FPS (default 60)")
	cmd.Flags().BoolVar(&flags.autoRotate, "auto-rotate", false, "Start auto-rotating")

	cmd.AddCommand(newRenderCmd(), newInfoCmd())
	return cmd
}
