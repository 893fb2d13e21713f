package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PlateMap/internal/model"
)

const (
	emptyWellMark  = "."
	unnumberedMark = "*"
)

func newShowCmd() *cobra.Command {
	var (
		plateName string
		wells     bool
	)

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print plates, projects and well occupancy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plates, err := loadPlates(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if plateName != "" {
				plate, err := findPlate(plates, plateName)
				if err != nil {
					return err
				}
				plates = []*model.Plate{plate}
			}
			return writeShow(cmd.OutOrStdout(), plates, wells)
		},
	}

	cmd.Flags().StringVarP(&plateName, "plate", "p", "", "show only this plate")
	cmd.Flags().BoolVarP(&wells, "wells", "w", false, "also print a grid of sample numbers")
	return cmd
}

func writeShow(w io.Writer, plates []*model.Plate, wells bool) error {
	if _, err := fmt.Fprintln(w, platesTable(plates)); err != nil {
		return err
	}
	for _, plate := range plates {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", plate.Name, projectsTable(plate)); err != nil {
			return err
		}
		if wells {
			if _, err := fmt.Fprintln(w, wellGrid(plate)); err != nil {
				return err
			}
		}
	}
	return nil
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func rightAligned(numbers ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(numbers))
	for _, n := range numbers {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	return configs
}

func platesTable(plates []*model.Plate) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Plate", "Size", "Orientation", "Used", "Free", "Projects"})
	for _, p := range plates {
		tw.AppendRow(table.Row{
			p.Name,
			fmt.Sprintf("%dx%d", p.Rows, p.Columns),
			p.Orientation.String(),
			len(p.UsedWells()),
			len(p.FreeWells()),
			len(p.Projects()),
		})
	}
	tw.SetColumnConfigs(rightAligned(4, 5, 6))
	return tw.Render()
}

func projectsTable(plate *model.Plate) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Project", "Color", "Samples", "Wells"})
	for _, p := range plate.Projects() {
		var labels []string
		for _, s := range p.Samples {
			for _, pos := range plate.SamplePositions(s) {
				labels = append(labels, pos.Label())
			}
		}
		tw.AppendRow(table.Row{p.Name, string(p.Color), len(labels), wellSpan(labels)})
	}
	tw.SetColumnConfigs(rightAligned(3))
	return tw.Render()
}

// wellSpan summarises well labels as "first-last".
func wellSpan(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return labels[0] + "-" + labels[len(labels)-1]
	}
}

func wellGrid(plate *model.Plate) string {
	tw := newTable()
	header := table.Row{""}
	for c := 1; c <= plate.Columns; c++ {
		header = append(header, strconv.Itoa(c))
	}
	tw.AppendHeader(header)

	for r := 0; r < plate.Rows; r++ {
		row := table.Row{string(model.RowLetters[r])}
		for c := 0; c < plate.Columns; c++ {
			mark := emptyWellMark
			if pos, err := plate.PositionFromRowCol(r, c); err == nil {
				if s := plate.At(pos); s != nil {
					mark = s.NumberLabel()
					if mark == "" {
						mark = unnumberedMark
					}
				}
			}
			row = append(row, mark)
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
