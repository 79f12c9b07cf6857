package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	// ErrNoText marks a well-formed document with nothing to extract, such as a scanned pdf.
	ErrNoText = errors.New("no extractable text")
)

// Parsed is the plain text extracted from one document file.
type Parsed struct {
	Title string
	Text  string
}

// Supported reports whether ParseFile understands the file extension of path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".docx", ".pdf":
		return true
	}
	return false
}

func ParseFile(path string) (*Parsed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var text string
	switch ext {
	case ".txt", ".md":
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("decode %s: invalid utf-8", filepath.Base(path))
		}
		text = string(raw)
	case ".docx":
		text, err = parseDOCX(raw)
		if err != nil {
			return nil, err
		}
	case ".pdf":
		text, err = parsePDF(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Parsed{
		Title: title,
		Text:  normalizeWhitespace(text),
	}, nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return "", fmt.Errorf("open document.xml: %w", openErr)
			}
			defer rc.Close()
			xmlData, err = io.ReadAll(rc)
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
			if t.Name.Local == "p" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.WriteString(string(t))
			}
		}
	}
	return b.String(), nil
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w in %s", ErrNoText, filepath.Base(path))
	}
	return b.String(), nil
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
