package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/model"
	"github.com/acquagyn/swimeval/internal/report"
)

// A4 landscape, in millimeters.
const (
	pageW   = 297.0
	pageH   = 210.0
	marginX = 12.0
)

// Exporter renders evaluation documents. It holds the catalog and the
// optional assets directory with the academy logo and level mascots.
type Exporter struct {
	catalog   *catalog.Catalog
	assetsDir string
	now       func() time.Time
}

// New creates an Exporter. assetsDir may be empty; missing images are
// simply not drawn.
func New(cat *catalog.Catalog, assetsDir string) *Exporter {
	return &Exporter{catalog: cat, assetsDir: assetsDir, now: time.Now}
}

// ReportFilename derives the download name for an evaluation report.
func ReportFilename(level model.Level, studentName string) string {
	return fmt.Sprintf("avaliacao_%s_%s.pdf", slug(string(level)), slug(studentName))
}

// CertificateFilename derives the download name for a certificate.
func CertificateFilename(studentName string, target model.Level) string {
	return fmt.Sprintf("certificado_%s_%s.pdf", slug(studentName), slug(string(target)))
}

// slug lowercases and joins whitespace runs with underscores, matching
// the filenames the academy already archives.
func slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

// Report renders the paginated evaluation report. The gate runs again
// here so the renderer can never be reached with an invalid snapshot.
// Rendering happens fully in memory; on any error nothing is produced.
func (e *Exporter) Report(ctx context.Context, sess model.EvaluationSession) ([]byte, string, error) {
	entry, err := ValidateReport(e.catalog, sess)
	if err != nil {
		return nil, "", err
	}

	rows := report.Compose(entry, sess)
	pages := report.Paginate(len(rows), report.ActivitiesPerPage)
	if len(pages) == 0 {
		return nil, "", fmt.Errorf("level %q has no activities to render", entry.Level)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Avaliação Pedagógica", true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		pdf.AddPage()
		e.drawWatermark(pdf, entry)
		y := e.drawReportHeader(pdf, tr, entry, sess.StudentInfo, page)
		for _, row := range rows[page.Start:page.End] {
			y = drawActivityRow(pdf, tr, entry.Colors, row, y)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), ReportFilename(entry.Level, sess.StudentInfo.Name), nil
}

// drawWatermark paints the level mascot faintly across the whole page,
// when the asset is available.
func (e *Exporter) drawWatermark(pdf *fpdf.Fpdf, entry catalog.Entry) {
	path, ok := e.asset(entry.Image)
	if !ok {
		return
	}
	pdf.SetAlpha(0.15, "Normal")
	pdf.ImageOptions(path, pageW/2-60, pageH/2-60, 120, 120, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	pdf.SetAlpha(1, "Normal")
}

// drawReportHeader renders the title, level block, and student grid.
// Returns the Y coordinate where activity rows start.
func (e *Exporter) drawReportHeader(pdf *fpdf.Fpdf, tr func(string) string, entry catalog.Entry, info model.StudentInfo, page report.Page) float64 {
	pr, pg, pb := entry.Colors.Primary.RGB()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(pr, pg, pb)
	pdf.SetXY(marginX, 10)
	pdf.CellFormat(pageW-2*marginX, 10, tr("AVALIAÇÃO PEDAGÓGICA"), "", 0, "C", false, 0, "")

	// Academy logo on the left, level mascot and objectives on the right.
	if logo, ok := e.asset("logo.png"); ok {
		pdf.ImageOptions(logo, marginX, 22, 0, 22, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(60, 60, 60)
		pdf.SetXY(marginX, 24)
		pdf.CellFormat(80, 8, "Academia Acquagyn", "", 0, "L", false, 0, "")
	}
	if mascot, ok := e.asset(entry.Image); ok {
		pdf.ImageOptions(mascot, pageW-marginX-20, 20, 20, 20, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	pdf.SetXY(pageW-marginX-110, 24)
	pdf.MultiCell(88, 3.6, tr("Objetivos: "+entry.Objective), "", "R", false)

	// Rule under the header block, in the level's primary color.
	pdf.SetDrawColor(pr, pg, pb)
	pdf.SetLineWidth(1)
	pdf.Line(marginX, 46, pageW-marginX, 46)

	// Student info grid: Nome / Idade / Data / Professor.
	colW := (pageW - 2*marginX) / 4
	fields := []struct{ label, value string }{
		{"Nome", info.Name},
		{"Idade", info.Age},
		{"Data", e.now().Format("02/01/2006")},
		{"Professor", info.Teacher},
	}
	for i, f := range fields {
		x := marginX + float64(i)*colW
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(x, 49)
		pdf.CellFormat(colW, 5, tr(f.label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(51, 51, 51)
		pdf.SetXY(x, 54)
		pdf.CellFormat(colW, 5, tr(f.value), "", 0, "L", false, 0, "")
	}

	y := 62.0
	if page.Total > 1 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(102, 102, 102)
		pdf.SetXY(marginX, y)
		pdf.CellFormat(pageW-2*marginX, 5, tr(fmt.Sprintf("Página %d de %d", page.Number, page.Total)), "", 0, "C", false, 0, "")
		y += 6
	}
	return y + 2
}

// drawActivityRow renders one activity box with its rating badge and
// optional observation block. Returns the Y coordinate for the next row.
func drawActivityRow(pdf *fpdf.Fpdf, tr func(string) string, colors catalog.ColorScheme, row report.Row, y float64) float64 {
	pr, pg, pb := colors.Primary.RGB()

	const (
		rowH     = 10.0
		badgeW   = 52.0
		badgeH   = 6.5
		obsExtra = 9.0
	)
	boxH := rowH
	if row.Observation != "" {
		boxH += obsExtra
	}

	// Box outline with a thick accent bar on the left.
	pdf.SetDrawColor(221, 221, 221)
	pdf.SetLineWidth(0.2)
	pdf.Rect(marginX, y, pageW-2*marginX, boxH, "D")
	pdf.SetFillColor(pr, pg, pb)
	pdf.Rect(marginX, y, 1.4, boxH, "F")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetXY(marginX+4, y+1)
	pdf.CellFormat(pageW-2*marginX-badgeW-12, 5, tr(row.Activity.Name), "", 0, "L", false, 0, "")
	if row.Activity.Description != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginX+4, y+5.6)
		pdf.CellFormat(pageW-2*marginX-badgeW-12, 4, tr(row.Activity.Description), "", 0, "L", false, 0, "")
	}

	// Rating badge.
	br, bg, bb := row.Badge.Background.RGB()
	cr, cg, cb := row.Badge.Text.RGB()
	bx := pageW - marginX - badgeW - 3
	by := y + (rowH-badgeH)/2
	pdf.SetFillColor(br, bg, bb)
	pdf.RoundedRect(bx, by, badgeW, badgeH, 1.8, "1234", "F")
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(cr, cg, cb)
	pdf.SetXY(bx, by+1)
	pdf.CellFormat(badgeW, 4.5, tr(row.Badge.Label), "", 0, "C", false, 0, "")

	if row.Observation != "" {
		oy := y + rowH
		pdf.SetFillColor(248, 249, 250)
		pdf.Rect(marginX+4, oy, pageW-2*marginX-8, obsExtra-1.5, "F")
		pdf.SetFillColor(pr, pg, pb)
		pdf.Rect(marginX+4, oy, 1, obsExtra-1.5, "F")
		pdf.SetFont("Helvetica", "B", 6.5)
		pdf.SetTextColor(pr, pg, pb)
		pdf.SetXY(marginX+7, oy+0.8)
		pdf.CellFormat(60, 3, tr("OBSERVAÇÃO:"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(85, 85, 85)
		pdf.SetXY(marginX+7, oy+4)
		pdf.CellFormat(pageW-2*marginX-14, 4, tr(row.Observation), "", 0, "L", false, 0, "")
	}

	return y + boxH + 1.6
}

// asset resolves a file under the assets directory, reporting whether it
// exists.
func (e *Exporter) asset(name string) (string, bool) {
	if e.assetsDir == "" || name == "" {
		return "", false
	}
	path := filepath.Join(e.assetsDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
