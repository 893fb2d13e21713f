package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PlateMap/internal/model"
)

// LabelInfo holds the data encoded into each sample label's QR code.
type LabelInfo struct {
	Plate     string `json:"plate"`
	Well      string `json:"well"`
	Project   string `json:"project"`
	ProjectID string `json:"project_id"`
	Sample    string `json:"sample"`
	Number    *int   `json:"number,omitempty"`

	color model.Color
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // mm
	labelPadding    = 2.0  // mm
	swatchSize      = 3.0  // mm
)

// CollectLabelInfos lists every occupied well, plate by plate in well order.
func CollectLabelInfos(plates []*model.Plate) []LabelInfo {
	var labels []LabelInfo
	for _, plate := range plates {
		for _, pos := range plate.UsedWells() {
			s := plate.At(pos)
			labels = append(labels, LabelInfo{
				Plate:     plate.Name,
				Well:      pos.Label(),
				Project:   s.Project.Name,
				ProjectID: s.Project.ID,
				Sample:    s.Name,
				Number:    s.Number,
				color:     s.Project.Color,
			})
		}
	}
	return labels
}

// ExportLabels writes a PDF sheet of QR-coded labels, one per occupied well,
// laid out for Avery 5160 stock on US Letter.
func ExportLabels(path string, plates []*model.Plate) error {
	labels := CollectLabelInfos(plates)
	if len(labels) == 0 {
		return errors.New("no samples placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		x := labelMarginLeft + float64(posOnPage%labelCols)*labelWidth
		y := labelMarginTop + float64(posOnPage/labelCols)*labelHeight

		if err := renderLabel(pdf, i, x, y, label); err != nil {
			return fmt.Errorf("label for %s %s: %w", label.Plate, label.Well, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, n int, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Project swatch, then plate and well in bold.
	r, g, b, _ := info.color.RGB()
	pdf.SetFillColor(int(r), int(g), int(b))
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(textX, y+labelPadding+0.75, swatchSize, swatchSize, "FD")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+swatchSize+1, y+labelPadding)
	pdf.CellFormat(textW-swatchSize-1, 4.5, truncate(pdf, info.Well+"  "+info.Plate, textW-swatchSize-1), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5.5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, info.Project, textW), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+9.5)
	sample := info.Sample
	if info.Number != nil {
		sample = fmt.Sprintf("#%d %s", *info.Number, info.Sample)
	}
	pdf.CellFormat(textW, 3.5, truncate(pdf, sample, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+13.5)
	pdf.CellFormat(textW, 3, info.ProjectID, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width in the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
