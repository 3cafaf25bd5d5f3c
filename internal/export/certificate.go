package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/acquagyn/swimeval/internal/model"
)

// Certificate palette (independent of level colors).
var (
	certBorder = [3]int{14, 165, 233}  // #0EA5E9
	certTitle  = [3]int{2, 132, 199}   // #0284C7
	certSub    = [3]int{3, 105, 161}   // #0369A1
	certGray   = [3]int{100, 116, 139} // #64748B
)

var ptMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func longDatePT(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), ptMonths[t.Month()-1], t.Year())
}

// Certificate renders the single-page promotion certificate. The gate
// runs again here; the renderer cannot be reached with an invalid pair of
// levels.
func (e *Exporter) Certificate(ctx context.Context, sess model.EvaluationSession, target model.Level) ([]byte, string, error) {
	if err := ValidateCertificate(e.catalog, sess, target); err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	current := *sess.SelectedLevel

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificado", true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Double border.
	pdf.SetDrawColor(certBorder[0], certBorder[1], certBorder[2])
	pdf.SetLineWidth(1.2)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(11, 11, pageW-22, pageH-22, "D")

	if logo, ok := e.asset("logo.png"); ok {
		pdf.ImageOptions(logo, pageW/2-12, 16, 24, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetTextColor(certTitle[0], certTitle[1], certTitle[2])
	pdf.SetXY(0, 42)
	pdf.CellFormat(pageW, 14, "CERTIFICADO", "", 0, "C", false, 0, "")

	pdf.SetLineWidth(0.8)
	pdf.Line(pageW/2-30, 58, pageW/2+30, 58)

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(certSub[0], certSub[1], certSub[2])
	pdf.SetXY(0, 60)
	pdf.CellFormat(pageW, 8, tr("Aprovação de Nível em Natação"), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(0, 74)
	pdf.CellFormat(pageW, 6, "Certificamos que", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(certTitle[0], certTitle[1], certTitle[2])
	pdf.SetXY(0, 82)
	pdf.CellFormat(pageW, 10, tr(sess.StudentInfo.Name), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(0, 94)
	pdf.CellFormat(pageW, 6,
		tr(fmt.Sprintf("concluiu com êxito o nível %s e está aprovado para o nível %s", current, target)),
		"", 0, "C", false, 0, "")

	e.drawProgression(pdf, tr, current, target)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(0, 156)
	pdf.CellFormat(pageW, 6, tr(longDatePT(e.now())), "", 0, "C", false, 0, "")

	pdf.SetDrawColor(certGray[0], certGray[1], certGray[2])
	pdf.SetLineWidth(0.3)
	pdf.Line(pageW/2-40, 172, pageW/2+40, 172)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(certGray[0], certGray[1], certGray[2])
	pdf.SetXY(0, 173)
	pdf.CellFormat(pageW, 5, "Assinatura do Instrutor", "", 0, "C", false, 0, "")

	serial := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	pdf.SetFont("Helvetica", "", 8)
	for i, line := range []string{
		"Academia Acquagyn - Excelência em natação desde 2005",
		"www.acquagyn.com.br | contato@acquagyn.com.br",
		"Certificado #" + serial,
	} {
		pdf.SetXY(0, 184+float64(i)*4)
		pdf.CellFormat(pageW, 4, tr(line), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), CertificateFilename(sess.StudentInfo.Name, target), nil
}

// drawProgression renders current → target with the level mascots when
// available.
func (e *Exporter) drawProgression(pdf *fpdf.Fpdf, tr func(string) string, current, target model.Level) {
	const (
		cy     = 118.0 // circle center line
		radius = 13.0
	)
	leftX := pageW/2 - 55
	rightX := pageW/2 + 55

	pdf.SetDrawColor(certBorder[0], certBorder[1], certBorder[2])
	pdf.SetLineWidth(0.9)

	for _, side := range []struct {
		x     float64
		level model.Level
	}{{leftX, current}, {rightX, target}} {
		pdf.Circle(side.x, cy, radius, "D")
		if entry, ok := e.catalog.Get(side.level); ok {
			if img, okImg := e.asset(entry.Image); okImg {
				pdf.ImageOptions(img, side.x-9, cy-9, 18, 18, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
			}
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(30, 30, 30)
		pdf.SetXY(side.x-35, cy+radius+3)
		pdf.CellFormat(70, 5, tr(string(side.level)), "", 0, "C", false, 0, "")
	}

	// Arrow between the circles.
	pdf.SetLineWidth(0.9)
	pdf.SetFillColor(certBorder[0], certBorder[1], certBorder[2])
	pdf.Line(leftX+radius+8, cy, rightX-radius-12, cy)
	pdf.Polygon([]fpdf.PointType{
		{X: rightX - radius - 12, Y: cy - 3},
		{X: rightX - radius - 12, Y: cy + 3},
		{X: rightX - radius - 6, Y: cy},
	}, "F")
}
