package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlateMap/internal/export"
	"github.com/piwi3910/PlateMap/internal/render"
)

const (
	formatPDF = "pdf"
	formatPNG = "png"
)

type renderOptions struct {
	output string
	format string
	page   string
	dpi    float64
	title  string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw plate maps with project legends",
		Long: `Draw every plate in FILE with its project legend, four plates per page.
The format follows the output extension unless --format is given; PNG output
writes one file per page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			path := args[0]

			format, err := outputFormat(opts.output, opts.format)
			if err != nil {
				return err
			}

			exportOpts := export.Options{Page: cfg.PageSize(), DPI: cfg.Page.DPI, Title: opts.title}
			if opts.page != "" {
				if exportOpts.Page, err = render.PageSizeByName(opts.page); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("dpi") {
				exportOpts.DPI = opts.dpi
			}
			if exportOpts.Title == "" {
				exportOpts.Title = filepath.Base(path)
			}

			plates, err := loadPlates(ctx, path)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			switch format {
			case formatPNG:
				err = export.ExportPNG(opts.output, plates, exportOpts)
			default:
				err = export.ExportPDF(opts.output, plates, exportOpts)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", path, err)
			}
			prog.done(fmt.Sprintf("Rendered %d plates to %s", len(plates), opts.output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: pdf or png (default: from the output extension)")
	cmd.Flags().StringVar(&opts.page, "page", "", "page size: A4 or Letter (default from config)")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 150, "PNG resolution (default from config)")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "page title (default: the plate file name)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// outputFormat picks the export format from the flag, else the file extension.
func outputFormat(output, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" {
			format = formatPDF
		}
	}
	switch strings.ToLower(format) {
	case formatPDF:
		return formatPDF, nil
	case formatPNG:
		return formatPNG, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want pdf or png)", format)
	}
}

func newLabelsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "labels FILE",
		Short: "Print QR-coded labels for every placed sample",
		Long:  "Write a PDF of Avery 5160 labels (3x10 on US Letter), one per occupied well.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plates, err := loadPlates(ctx, args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			if err := export.ExportLabels(output, plates); err != nil {
				return fmt.Errorf("labels %s: %w", args[0], err)
			}
			prog.done(fmt.Sprintf("Wrote %d labels to %s", len(export.CollectLabelInfos(plates)), output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
