package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// renderPDF lays out doc as a syntax-highlighted A4 document: the structure
// first, then one page per file.
func renderPDF(doc ExportDocument, summary Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	width := float64(pdfPageWidth - 2*pdfMargin)

	pdf.SetFont("Helvetica", "B", pdfFontSize+3)
	pdf.MultiCell(width, pdfLineHeight+1, "Project Export", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize-1)
	pdf.MultiCell(width, pdfLineHeight, "Exported: "+isoTime(doc.ExportedAt), "", "L", false)
	pdf.Ln(pdfLineHeight)

	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(width, pdfLineHeight, tr(doc.Structure), "", "L", false)

	for _, file := range doc.Files {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(width, pdfLineHeight, tr("File: "+file.Path), "", "L", false)
		pdf.SetFont("Helvetica", "", pdfFontSize-1)
		pdf.MultiCell(width, pdfLineHeight,
			fmt.Sprintf("Last modified: %s | Size: %.2f KB", isoTime(file.LastModified), float64(file.Size)/1024), "", "L", false)
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		if err := writeHighlightedCode(pdf, style, tr, file); err != nil {
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(width, pdfLineHeight, tr(file.Content), "", "L", false)
		}
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(width, pdfLineHeight, "Summary", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summaryString := fmt.Sprintf("Files: %d\nTotal size: %d bytes\nSkipped: %d", summary.TotalFiles, summary.TotalSize, summary.SkippedFiles)
	if summary.TotalTokens > 0 {
		summaryString += fmt.Sprintf("\nTokens: %d", summary.TotalTokens)
	}
	pdf.MultiCell(width, pdfLineHeight, summaryString, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pickLexer prefers the filename, then the language tag, then content analysis.
func pickLexer(file FileRecord) chroma.Lexer {
	lexer := lexers.Match(file.Path)
	if lexer == nil && file.Language != "" {
		lexer = lexers.Get(file.Language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(file.Content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func writeHighlightedCode(pdf *gofpdf.Fpdf, style *chroma.Style, tr func(string) string, file FileRecord) error {
	iterator, err := pickLexer(file).Tokenise(nil, file.Content)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		styleStr := ""
		if entry.Bold == chroma.Yes {
			styleStr += "B"
		}
		if entry.Italic == chroma.Yes {
			styleStr += "I"
		}
		pdf.SetFontStyle(styleStr)

		if entry.Colour.IsSet() {
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(pdfLineHeight, tr(strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth))))
	}
	pdf.Ln(-1)
	return pdf.Error()
}
