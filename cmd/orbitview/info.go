package main

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/orbitview/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF80"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(10)
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Print mesh statistics without opening the viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, err := models.Load(args[0])
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			printInfo(cmd.OutOrStdout(), mesh)
			return nil
		},
	}
}

// printInfo writes the mesh name, counts and untransformed bounds.
func printInfo(w io.Writer, mesh *models.Mesh) {
	lo, hi := mesh.GetBounds()
	size := mesh.Size()

	fmt.Fprintln(w, titleStyle.Render(mesh.Name))
	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}
	row("vertices", fmt.Sprint(mesh.VertexCount()))
	row("triangles", fmt.Sprint(mesh.TriangleCount()))
	row("min", fmt.Sprintf("%.3f %.3f %.3f", lo.X, lo.Y, lo.Z))
	row("max", fmt.Sprintf("%.3f %.3f %.3f", hi.X, hi.Y, hi.Z))
	row("size", fmt.Sprintf("%.3f %.3f %.3f", size.X, size.Y, size.Z))
}
