package frame

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "fxstory/internal/errors"
)

// Loader reads delimited files into tables. Failures are logged and turned
// into an absent result; they never reach the caller as errors.
type Loader struct {
	logger *slog.Logger
	comma  rune
}

// NewLoader creates a comma-delimited loader logging to logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "loader")),
		comma:  ',',
	}
}

// WithComma returns a copy of the loader using a different field delimiter.
func (l *Loader) WithComma(comma rune) *Loader {
	out := *l
	out.comma = comma
	return &out
}

// ReadFile parses the file at path. It returns nil after logging one
// diagnostic when the path is not a readable file or its content is malformed.
func (l *Loader) ReadFile(ctx context.Context, path string) *Table {
	file, err := openRegular(path)
	if err != nil {
		l.report(ctx, apperrors.NewFileNotFoundError(path, err))
		return nil
	}
	defer file.Close()

	t, err := read(file, l.comma)
	if err != nil {
		l.report(ctx, apperrors.NewParsingError("file not parsed", err).WithContext("path", path))
		return nil
	}

	l.logger.InfoContext(ctx, "File read",
		slog.String("path", path),
		slog.Int("rows", t.Len()),
		slog.Int("columns", t.Width()))
	return t
}

func (l *Loader) report(ctx context.Context, err *apperrors.AppError) {
	path, _ := err.Context["path"].(string)
	l.logger.ErrorContext(ctx, err.Message,
		slog.String("error_kind", string(err.Type)),
		slog.String("path", path),
		slog.String("error", err.Error()))
}

func openRegular(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return file, nil
}

// Read parses comma-delimited text with a header row. Every cell is kept as
// text; row and column order follow the input.
func Read(r io.Reader) (*Table, error) {
	return read(r, ',')
}

func read(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	cells := make([][]string, len(header))
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		for i, v := range record {
			cells[i] = append(cells[i], v)
		}
	}

	columns := make([]*Column, len(header))
	for i, name := range header {
		columns[i] = &Column{name: name, kind: KindText, text: cells[i]}
		if columns[i].text == nil {
			columns[i].text = []string{}
		}
	}
	return New(columns...)
}
