package dataprocessing

import (
	"database/sql"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"moviescope/internal/config"
	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// Loader reads the movie dataset into a raw MovieTable.
type Loader struct {
	policy string
	logger *slog.Logger
}

// NewLoader creates a loader. An empty policy means fail-fast.
func NewLoader(opts LoadOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := opts.ParsePolicy
	if policy == "" {
		policy = config.ParsePolicyFail
	}
	return &Loader{
		policy: policy,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// LoadFile reads a .csv file or the first sheet of an .xlsx workbook.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewLoadError(fmt.Sprintf("failed to open %s", path), err).
				WithContext("path", path)
		}
		defer f.Close()

		l.logger.Info("Loading CSV dataset", slog.String("path", path))
		return l.LoadCSV(f)
	case ".xlsx":
		return l.LoadXLSX(path)
	default:
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("unsupported dataset format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// LoadCSV reads CSV data whose header names exactly the 21 movie columns.
func (l *Loader) LoadCSV(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewLoadError("dataset is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewLoadError("failed to read header", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	var records []domain.MovieRecord

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				return nil, apperrors.NewLoadError("malformed CSV", err).
					WithContext("line", parseErr.Line)
			}
			return nil, apperrors.NewLoadError("failed to read row", err)
		}

		line, _ := reader.FieldPos(0)
		if len(row) != len(header) {
			return nil, apperrors.NewLoadError(
				fmt.Sprintf("line %d: expected %d fields, got %d", line, len(header), len(row)), nil).
				WithContext("line", line)
		}

		result.RowsRead++
		record, ok, err := l.parseRow(row, index, line, result)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}

	result.Table = domain.NewMovieTable(records)
	l.logLoaded(result)
	return result, nil
}

// LoadXLSX reads the first sheet of a workbook laid out like the CSV export.
func (l *Loader) LoadXLSX(path string) (*LoadResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("failed to open workbook %s", path), err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewLoadError("workbook has no sheets", nil).WithContext("path", path)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("failed to read sheet %q", sheetName), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewLoadError("dataset is empty", nil).WithContext("sheet", sheetName)
	}

	l.logger.Info("Loading XLSX dataset",
		slog.String("path", path),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	header := rows[0]
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	var records []domain.MovieRecord

	for i, row := range rows[1:] {
		line := i + 2
		if isBlankRow(row) {
			continue
		}
		// excelize omits trailing empty cells
		if len(row) > len(header) {
			return nil, apperrors.NewLoadError(
				fmt.Sprintf("line %d: expected %d fields, got %d", line, len(header), len(row)), nil).
				WithContext("line", line)
		}
		for len(row) < len(header) {
			row = append(row, "")
		}

		result.RowsRead++
		record, ok, err := l.parseRow(row, index, line, result)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}

	result.Table = domain.NewMovieTable(records)
	l.logLoaded(result)
	return result, nil
}

func (l *Loader) logLoaded(result *LoadResult) {
	l.logger.Info("Dataset loaded",
		slog.Int("rows_read", result.RowsRead),
		slog.Int("records", result.Table.Len()),
		slog.Int("dropped", result.Dropped()))
}

// parseRow converts one row. Under the drop policy a row with a bad cell is
// reported as not ok and logged in result.
func (l *Loader) parseRow(row []string, index map[string]int, line int, result *LoadResult) (domain.MovieRecord, bool, error) {
	record, err := parseMovieRecord(row, index, line)
	if err == nil {
		return record, true, nil
	}
	if l.policy != config.ParsePolicyDrop {
		return domain.MovieRecord{}, false, err
	}

	var appErr *apperrors.AppError
	column, value := "", ""
	if stderrors.As(err, &appErr) {
		column, _ = appErr.Context["column"].(string)
		value, _ = appErr.Context["value"].(string)
	}

	l.logger.Warn("Dropping unparseable row",
		slog.Int("line", line),
		slog.String("column", column),
		slog.String("value", value))

	result.Operations = append(result.Operations, CleaningOperation{
		RowIdentifier: fmt.Sprintf("line %d", line),
		ColumnName:    column,
		OriginalValue: value,
		Operation:     OpDropRow,
		Reason:        ReasonUnparseableValue,
	})
	return domain.MovieRecord{}, false, nil
}

// columnIndex maps each known column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	known := make(map[string]bool, len(domain.MovieColumns))
	for _, c := range domain.MovieColumns {
		known[c] = true
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)

		if !known[name] {
			return nil, apperrors.NewLoadError(fmt.Sprintf("unexpected column %q", name), nil).
				WithContext("column", name)
		}
		if _, dup := index[name]; dup {
			return nil, apperrors.NewLoadError(fmt.Sprintf("duplicate column %q", name), nil).
				WithContext("column", name)
		}
		index[name] = i
	}

	var missing []string
	for _, c := range domain.MovieColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")), nil)
	}

	return index, nil
}

// cellParser converts the cells of a single row, remembering the first failure.
type cellParser struct {
	row   []string
	index map[string]int
	line  int
	err   error
}

func (p *cellParser) cell(column string) string {
	return p.row[p.index[column]]
}

func (p *cellParser) fail(column, value string, cause error) {
	if p.err != nil {
		return
	}
	p.err = apperrors.NewParsingError(
		fmt.Sprintf("line %d: column %s: cannot parse %q", p.line, column, value), cause).
		WithContext("line", p.line).
		WithContext("column", column).
		WithContext("value", value)
}

func (p *cellParser) parseText(column string) sql.NullString {
	v := p.cell(column)
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func (p *cellParser) parseFloat(column string) float64 {
	raw := strings.TrimSpace(p.cell(column))
	if raw == "" {
		p.fail(column, raw, fmt.Errorf("empty numeric value"))
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(column, raw, err)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(column, raw, fmt.Errorf("non-finite value"))
		return 0
	}
	return v
}

// parseInt64 accepts integral floats such as "1.0" or "1.5E+08", which
// spreadsheet exports produce for large integers.
func (p *cellParser) parseInt64(column string) int64 {
	raw := strings.TrimSpace(p.cell(column))
	if raw == "" {
		p.fail(column, raw, fmt.Errorf("empty numeric value"))
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return v
	}
	if stderrors.Is(err, strconv.ErrRange) {
		p.fail(column, raw, fmt.Errorf("integer out of range"))
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(column, raw, err)
		return 0
	}
	if math.Trunc(f) != f {
		p.fail(column, raw, fmt.Errorf("not an integer"))
		return 0
	}
	// float64(math.MaxInt64) rounds up to 2^63, so compare against 2^63 itself
	if f >= 1<<63 || f < -(1<<63) {
		p.fail(column, raw, fmt.Errorf("integer out of range"))
		return 0
	}
	return int64(f)
}

func (p *cellParser) parseInt(column string) int {
	return int(p.parseInt64(column))
}

func parseMovieRecord(row []string, index map[string]int, line int) (domain.MovieRecord, error) {
	p := &cellParser{row: row, index: index, line: line}

	record := domain.MovieRecord{
		ID:                  p.parseInt64(domain.ColID),
		IMDbID:              p.parseText(domain.ColIMDbID),
		Popularity:          p.parseFloat(domain.ColPopularity),
		Budget:              p.parseInt64(domain.ColBudget),
		Revenue:             p.parseInt64(domain.ColRevenue),
		OriginalTitle:       p.parseText(domain.ColOriginalTitle),
		Cast:                p.parseText(domain.ColCast),
		Homepage:            p.parseText(domain.ColHomepage),
		Director:            p.parseText(domain.ColDirector),
		Tagline:             p.parseText(domain.ColTagline),
		Keywords:            p.parseText(domain.ColKeywords),
		Overview:            p.parseText(domain.ColOverview),
		Runtime:             p.parseInt(domain.ColRuntime),
		Genres:              p.parseText(domain.ColGenres),
		ProductionCompanies: p.parseText(domain.ColProductionCompanies),
		ReleaseDateRaw:      p.parseText(domain.ColReleaseDate),
		VoteCount:           p.parseInt64(domain.ColVoteCount),
		VoteAverage:         p.parseFloat(domain.ColVoteAverage),
		ReleaseYear:         p.parseInt(domain.ColReleaseYear),
		BudgetAdj:           p.parseFloat(domain.ColBudgetAdj),
		RevenueAdj:          p.parseFloat(domain.ColRevenueAdj),
	}

	if p.err != nil {
		return domain.MovieRecord{}, p.err
	}
	return record, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
