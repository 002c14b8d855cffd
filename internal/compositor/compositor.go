// Package compositor renders donation details onto the fixed receipt
// template image. Every field has a fixed pixel coordinate; the payment
// method adds a checkmark glyph at its own coordinate. Rendering is
// deterministic for identical inputs, so regenerating a document for the
// same receipt is an idempotent overwrite.
package compositor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // template may be a JPEG
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DateLayout is the dd/mm/yyyy format printed on the document.
const DateLayout = "02/01/2006"

const fontSize = 46

type point struct {
	x, y float64
}

// Field coordinates on the template, in pixels. The y coordinate is the
// text baseline, matching the template's printed lines.
var (
	receivedFromAt  = point{484, 730}
	contactNumberAt = point{447, 888}
	sumRinggitAt    = point{530, 1025}
	rmAt            = point{344, 1405}
	dateAt          = point{1899, 610}
	remarksAt       = point{350, 1188}
	receiptIDAt     = point{1907, 348}
)

// checkmarkAt maps each recognized payment method to its checkbox
// position. Methods absent from this map render no mark.
var checkmarkAt = map[string]point{
	"cash":     {844, 1333},
	"cdm":      {850, 1403},
	"rhbbank":  {1157, 1330},
	"ambank":   {1157, 1396},
	"touchngo": {1157, 1468},
	"maybank":  {850, 1468},
}

// Fields is everything printed onto the template. Date is supplied by
// the caller so renders are reproducible.
type Fields struct {
	ReceiptID     string
	ReceivedFrom  string
	ContactNumber string
	SumRinggit    string
	RM            string
	Remarks       string
	PaymentMethod string
	Date          time.Time
}

// Compositor draws receipt fields onto a copy of the base template.
// The template is loaded once and read concurrently without locking.
type Compositor struct {
	template image.Image
	face     font.Face
}

// New loads the base template and prepares the text face. A missing or
// corrupt template fails here so no receipt can be created without a
// renderable document.
func New(templatePath string) (*Compositor, error) {
	tmpl, err := gg.LoadImage(templatePath)
	if err != nil {
		return nil, fmt.Errorf("loading receipt template %s: %w", templatePath, err)
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("building font face: %w", err)
	}

	return &Compositor{template: tmpl, face: face}, nil
}

// Render produces the finished document as PNG bytes.
func (c *Compositor) Render(f Fields) ([]byte, error) {
	bounds := c.template.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.DrawImage(c.template, 0, 0)

	dc.SetFontFace(c.face)
	dc.SetRGB(0, 0, 0)
	dc.DrawString(f.ReceivedFrom, receivedFromAt.x, receivedFromAt.y)
	dc.DrawString(f.ContactNumber, contactNumberAt.x, contactNumberAt.y)
	dc.DrawString(f.SumRinggit, sumRinggitAt.x, sumRinggitAt.y)
	dc.DrawString(f.RM, rmAt.x, rmAt.y)
	dc.DrawString(f.Date.Format(DateLayout), dateAt.x, dateAt.y)
	dc.DrawString(f.Remarks, remarksAt.x, remarksAt.y)
	dc.DrawString(f.ReceiptID, receiptIDAt.x, receiptIDAt.y)

	if at, ok := checkmarkAt[strings.ToLower(f.PaymentMethod)]; ok {
		drawCheckmark(dc, at)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding receipt document: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCheckmark strokes the short green polyline used to tick a payment
// method checkbox.
func drawCheckmark(dc *gg.Context, at point) {
	dc.MoveTo(at.x, at.y)
	dc.LineTo(at.x+20, at.y+20)
	dc.LineTo(at.x+50, at.y-20)
	dc.SetRGB255(0, 128, 0)
	dc.SetLineWidth(5)
	dc.Stroke()
}
