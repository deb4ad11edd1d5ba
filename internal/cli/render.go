package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/layout"
)

var (
	renderCatalog  string
	renderLayout   string
	renderIndex    int
	renderProgress float64
	renderWidth    float64
	renderRotation float64
)

// renderCmd prints one frame as JSON
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print a layout frame as JSON",
	Long: `Compute a single frame for a catalog without starting the server.

Examples:
  portfolio render --catalog skills --index 1
  portfolio render --catalog achievements --rotation 45 --width 375`,
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := renderFrame()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(frame)
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderCatalog, "catalog", "skills", "catalog name")
	renderCmd.Flags().StringVar(&renderLayout, "layout", "", "layout strategy (default: the catalog's)")
	renderCmd.Flags().IntVar(&renderIndex, "index", engine.NoIndex, "displayed item index, -1 for none")
	renderCmd.Flags().Float64Var(&renderProgress, "progress", 1, "connector progress 0..1")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 1300, "viewport width in px")
	renderCmd.Flags().Float64Var(&renderRotation, "rotation", 0, "radial rotation in degrees")
}

func renderFrame() (layout.Frame, error) {
	set, err := loadCatalogs(catalogFlag)
	if err != nil {
		return layout.Frame{}, err
	}
	c, err := set.Get(renderCatalog)
	if err != nil {
		return layout.Frame{}, err
	}
	name := renderLayout
	if name == "" {
		name = c.Layout
	}
	strategy, err := layout.Lookup(name)
	if err != nil {
		return layout.Frame{}, err
	}
	d := engine.Display{
		Index:        renderIndex,
		Progress:     renderProgress,
		ShowSubItems: renderProgress >= engine.DefaultRules().RevealThreshold,
	}
	return layout.Compute(strategy, c.Items, d, layout.Options{Width: renderWidth, Rotation: renderRotation})
}
