package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlateMap/internal/model"
	"github.com/piwi3910/PlateMap/internal/roster"
	"github.com/piwi3910/PlateMap/internal/store"
)

// loadPlates reads the plate file, coloring projects from the configured palette.
func loadPlates(ctx context.Context, path string) ([]*model.Plate, error) {
	cfg := configFromContext(ctx)
	plates, err := store.Loader{Palette: cfg.PaletteColors()}.LoadFile(path)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded plate file", "path", path, "plates", len(plates))
	return plates, nil
}

// loadPlatesOrEmpty is loadPlates, but a missing file is an empty plate list.
func loadPlatesOrEmpty(ctx context.Context, path string) ([]*model.Plate, error) {
	plates, err := loadPlates(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return plates, err
}

func savePlates(ctx context.Context, path string, plates []*model.Plate) error {
	if err := store.SaveFile(path, plates); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("saved plate file", "path", path, "plates", len(plates))
	return nil
}

// findPlate returns the plate called name, or the last plate when name is empty.
func findPlate(plates []*model.Plate, name string) (*model.Plate, error) {
	if len(plates) == 0 {
		return nil, errors.New("plate file has no plates; create one with 'platemap new'")
	}
	if name == "" {
		return plates[len(plates)-1], nil
	}
	for _, p := range plates {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no plate named %q", name)
}

// findProject looks a project up by name across all plates.
func findProject(plates []*model.Plate, name string) *model.Project {
	for _, plate := range plates {
		for _, p := range plate.Projects() {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// countProjects returns the number of distinct project names in plates.
func countProjects(plates []*model.Plate) int {
	seen := make(map[string]bool)
	for _, plate := range plates {
		for _, p := range plate.Projects() {
			seen[p.Name] = true
		}
	}
	return len(seen)
}

func newNewCmd() *cobra.Command {
	var (
		name       string
		rows       int
		columns    int
		horizontal bool
	)

	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Append an empty plate to a plate file",
		Long:  "Append an empty plate to FILE, creating the file if needed. Geometry defaults come from the [plate] config section.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			path := args[0]

			plates, err := loadPlatesOrEmpty(ctx, path)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("rows") {
				rows = cfg.Plate.Rows
			}
			if !cmd.Flags().Changed("columns") {
				columns = cfg.Plate.Columns
			}
			orientation := cfg.Orientation()
			if cmd.Flags().Changed("horizontal") {
				orientation = model.Vertical
				if horizontal {
					orientation = model.Horizontal
				}
			}
			if name == "" {
				name = fmt.Sprintf("Plate %d", len(plates)+1)
			}
			for _, p := range plates {
				if p.Name == name {
					return fmt.Errorf("plate %q already exists", name)
				}
			}

			plate, err := model.NewPlate(name, rows, columns, orientation)
			if err != nil {
				return err
			}
			if err := savePlates(ctx, path, append(plates, plate)); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("Created plate", "name", name, "wells", plate.NumberOfWells(), "orientation", orientation)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "plate name (default \"Plate <n>\")")
	cmd.Flags().IntVar(&rows, "rows", 8, "number of rows")
	cmd.Flags().IntVar(&columns, "columns", 12, "number of columns")
	cmd.Flags().BoolVar(&horizontal, "horizontal", false, "fill row by row instead of column by column")
	return cmd
}

type addOptions struct {
	plate   string
	start   string
	first   int
	last    int
	project string
	color   string
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add FILE SAMPLELIST",
		Short: "Place the samples of a sample list onto a plate",
		Long: `Read SAMPLELIST (.xlsx or .csv) and place its samples into consecutive
wells of a plate in FILE, following the plate's well order.

The project name is taken from a sample list named
<name>_<yymmdd>..._SampleList.xlsx unless --project is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.plate, "plate", "p", "", "target plate (default: last plate)")
	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "first well to fill (default: first free well)")
	cmd.Flags().IntVar(&opts.first, "first", 1, "first sample of the list to place (1-based)")
	cmd.Flags().IntVar(&opts.last, "last", 0, "last sample of the list to place (1-based, 0 = through the end)")
	cmd.Flags().StringVar(&opts.project, "project", "", "project name (default: parsed from the file name)")
	cmd.Flags().StringVar(&opts.color, "color", "", "project color (default: next palette color)")
	return cmd
}

func runAdd(ctx context.Context, path, listPath string, opts addOptions) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	plates, err := loadPlates(ctx, path)
	if err != nil {
		return err
	}
	plate, err := findPlate(plates, opts.plate)
	if err != nil {
		return err
	}

	list, err := roster.ReadFile(listPath, roster.Options{ProjectName: opts.project})
	if err != nil {
		return err
	}
	logger.Debug("read sample list", "path", listPath, "project", list.ProjectName, "samples", list.Len())
	if list.Len() == 0 {
		return fmt.Errorf("%s lists no samples", listPath)
	}

	color := model.Color(opts.color)
	switch {
	case color != "":
		if !color.Valid() {
			return fmt.Errorf("unknown color %q", opts.color)
		}
	case findProject(plates, list.ProjectName) != nil:
		color = findProject(plates, list.ProjectName).Color
	default:
		color = model.PaletteColor(cfg.PaletteColors(), countProjects(plates))
	}
	project := list.Project(color)

	start, err := startPosition(plate, opts.start)
	if err != nil {
		return err
	}
	if err := plate.AddProjectRange(project, start, opts.first-1, opts.last-1); err != nil {
		return fmt.Errorf("placing %s on %s: %w", project.Name, plate.Name, err)
	}
	if err := savePlates(ctx, path, plates); err != nil {
		return err
	}

	logger.Info("Placed samples", "project", project.Name, "plate", plate.Name, "start", start.Label(), "color", color)
	return nil
}

// startPosition resolves a well label, or finds the first free well.
func startPosition(plate *model.Plate, label string) (model.Position, error) {
	if label != "" {
		return plate.PositionFromLabel(strings.ToUpper(strings.TrimSpace(label)))
	}
	free := plate.FreeWells()
	if len(free) == 0 {
		return model.Position{}, fmt.Errorf("plate %q is full", plate.Name)
	}
	return free[0], nil
}

func newRemoveCmd() *cobra.Command {
	var plateName, project, well string

	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Clear a project or a single well",
		Long: `Clear every well holding a sample of --project, or the sample in --well.
Without --plate a project is removed from every plate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			plates, err := loadPlates(ctx, path)
			if err != nil {
				return err
			}

			if well != "" {
				err = removeWell(plates, plateName, well)
			} else {
				err = removeProject(plates, plateName, project)
			}
			if err != nil {
				return err
			}
			if err := savePlates(ctx, path, plates); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("Removed", "project", project, "well", well, "plate", plateName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&plateName, "plate", "p", "", "plate to change")
	cmd.Flags().StringVar(&project, "project", "", "project to remove")
	cmd.Flags().StringVarP(&well, "well", "w", "", "well to clear, e.g. C7 (requires --plate)")
	cmd.MarkFlagsMutuallyExclusive("project", "well")
	cmd.MarkFlagsOneRequired("project", "well")
	return cmd
}

func removeWell(plates []*model.Plate, plateName, label string) error {
	if plateName == "" {
		return errors.New("--well requires --plate")
	}
	plate, err := findPlate(plates, plateName)
	if err != nil {
		return err
	}
	sample, err := plate.Well(strings.ToUpper(strings.TrimSpace(label)))
	if err != nil {
		return err
	}
	if sample == nil {
		return fmt.Errorf("well %s on %s is already empty", label, plate.Name)
	}
	plate.RemoveSample(sample)
	return nil
}

func removeProject(plates []*model.Plate, plateName, name string) error {
	targets := plates
	if plateName != "" {
		plate, err := findPlate(plates, plateName)
		if err != nil {
			return err
		}
		targets = []*model.Plate{plate}
	}

	removed := false
	for _, plate := range targets {
		for _, p := range plate.Projects() {
			if p.Name == name {
				plate.RemoveProject(p)
				removed = true
			}
		}
	}
	if !removed {
		return fmt.Errorf("project %q is not on any selected plate", name)
	}
	return nil
}
