// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// docTypes maps lower-case source extensions to document families.
var docTypes = map[string]types.DocType{
	".doc":  types.DocWord,
	".docx": types.DocWord,
	".xls":  types.DocSpreadsheet,
	".xlsx": types.DocSpreadsheet,
	".ppt":  types.DocPresentation,
	".pptx": types.DocPresentation,
}

// pdfFilters are the soffice export filters per document family.
var pdfFilters = map[types.DocType]string{
	types.DocWord:         "writer_pdf_Export",
	types.DocSpreadsheet:  "calc_pdf_Export",
	types.DocPresentation: "impress_pdf_Export",
}

// SupportedExtensions returns the accepted source extensions in a stable
// order.
func SupportedExtensions() []string {
	return []string{".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}
}

// Classify infers the document family from the extension of path. Matching
// is case-insensitive. Any other extension yields ErrUnsupportedType.
func Classify(path string) (types.DocType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	doc, ok := docTypes[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return doc, nil
}

// PDFFilter returns the soffice export filter for doc.
func PDFFilter(doc types.DocType) string {
	return pdfFilters[doc]
}

// OutputPath returns <outputDir>/<source base without extension>.pdf.
func OutputPath(sourcePath, outputDir string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+".pdf")
}
