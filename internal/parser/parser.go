package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Section is a page-sized unit of extracted text. Sentence-level
// chunking happens later, during ingestion.
type Section struct {
	Text       string
	PageNumber int
}

const defaultPageNumber = 1

// Supported reports whether the file extension can be parsed.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".xlsx", ".ods", ".md", ".txt":
		return true
	}
	return false
}

// ParseDocument extracts text sections from a curriculum file. Page
// numbers are preserved for formats that have them; sheet and paragraph
// based formats are numbered by position.
func ParseDocument(path string) ([]Section, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return parsePDF(path)
	case ".docx":
		return parseDOCX(path)
	case ".xlsx":
		return parseXLSX(path)
	case ".ods":
		return parseODS(path)
	case ".md":
		return parseMarkdown(path)
	case ".txt":
		return parseText(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

func parsePDF(path string) ([]Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}

	var sections []Section
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or damaged pages are skipped, not fatal.
			continue
		}
		if cleaned := CleanText(text); cleaned != "" {
			sections = append(sections, Section{Text: cleaned, PageNumber: i})
		}
	}
	return sections, nil
}

func parseDOCX(path string) ([]Section, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var sections []Section
	for i, para := range strings.Split(content, "\n") {
		if cleaned := CleanText(para); cleaned != "" {
			sections = append(sections, Section{Text: cleaned, PageNumber: i + 1})
		}
	}
	return sections, nil
}

func parseXLSX(path string) ([]Section, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}

	var sections []Section
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString("Sheet: " + sheet.Name + "\n")
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		if cleaned := CleanText(text.String()); cleaned != "" {
			sections = append(sections, Section{Text: cleaned, PageNumber: sheetNum + 1})
		}
	}
	return sections, nil
}

func parseODS(path string) ([]Section, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sections []Section
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t") + "\n")
		}
		if cleaned := CleanText(text.String()); cleaned != "" {
			sections = append(sections, Section{Text: cleaned, PageNumber: sheetNum + 1})
		}
	}
	return sections, nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// parseMarkdown renders markdown to HTML and strips the tags, so
// formatting syntax does not leak into embeddings.
func parseMarkdown(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown %s: %w", path, err)
	}
	plain := htmlTagRe.ReplaceAllString(buf.String(), " ")

	cleaned := CleanText(plain)
	if cleaned == "" {
		return nil, nil
	}
	return []Section{{Text: cleaned, PageNumber: defaultPageNumber}}, nil
}

func parseText(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cleaned := CleanText(string(data))
	if cleaned == "" {
		return nil, nil
	}
	return []Section{{Text: cleaned, PageNumber: defaultPageNumber}}, nil
}

var (
	multiSpaceRe   = regexp.MustCompile(`[ \t]+`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText collapses extraction artifacts: runs of spaces, stacked
// blank lines, stray control characters.
func CleanText(text string) string {
	text = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
