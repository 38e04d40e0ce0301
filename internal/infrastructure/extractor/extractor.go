// Package extractor turns a stored contract file into analyzable plain
// text. Scanned/image-only PDFs yield little or no text and are rejected
// as invalid input rather than analyzed as an empty document.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/rghosh/clausewise/internal/core/domain"
	"github.com/rghosh/clausewise/internal/core/ports"
)

// minUsableChars rejects uploads that technically parsed but carry no
// analyzable content (blank pages, image-only scans).
const minUsableChars = 20

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, c *domain.Contract) (string, error) {
	reader, err := e.storage.Open(ctx, c.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open stored contract: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stored contract: %w", err)
	}

	var text string
	switch strings.ToLower(filepath.Ext(c.Filename)) {
	case ".pdf":
		text, err = pdfText(raw)
	case ".txt":
		text, err = plainText(raw)
	default:
		return "", domain.WrapError(
			domain.ErrUnsupportedFileType,
			"extract text",
			fmt.Errorf("file %q (supported: .pdf, .txt)", c.Filename),
		)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minUsableChars {
		return "", domain.WrapError(
			domain.ErrInvalidInput,
			"extract text",
			fmt.Errorf("only %d usable characters; scanned or empty document", utf8.RuneCountInString(text)),
		)
	}
	return text, nil
}

func pdfText(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	content, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func plainText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(
			domain.ErrInvalidInput,
			"extract text",
			fmt.Errorf("txt upload is not valid UTF-8"),
		)
	}
	return string(raw), nil
}
