package domain

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used when writing parsed release dates.
const DateLayout = "2006-01-02"

// NotAvailable is the sentinel substituted for missing text values during cleaning.
const NotAvailable = "Not Available"

// Column names of the TMDb movie export, in source order.
const (
	ColID                  = "id"
	ColIMDbID              = "imdb_id"
	ColPopularity          = "popularity"
	ColBudget              = "budget"
	ColRevenue             = "revenue"
	ColOriginalTitle       = "original_title"
	ColCast                = "cast"
	ColHomepage            = "homepage"
	ColDirector            = "director"
	ColTagline             = "tagline"
	ColKeywords            = "keywords"
	ColOverview            = "overview"
	ColRuntime             = "runtime"
	ColGenres              = "genres"
	ColProductionCompanies = "production_companies"
	ColReleaseDate         = "release_date"
	ColVoteCount           = "vote_count"
	ColVoteAverage         = "vote_average"
	ColReleaseYear         = "release_year"
	ColBudgetAdj           = "budget_adj"
	ColRevenueAdj          = "revenue_adj"
)

// MovieColumns lists the 21 known columns in source order.
var MovieColumns = []string{
	ColID, ColIMDbID, ColPopularity, ColBudget, ColRevenue, ColOriginalTitle,
	ColCast, ColHomepage, ColDirector, ColTagline, ColKeywords, ColOverview,
	ColRuntime, ColGenres, ColProductionCompanies, ColReleaseDate, ColVoteCount,
	ColVoteAverage, ColReleaseYear, ColBudgetAdj, ColRevenueAdj,
}

// MovieRecord is one row of the movie dataset.
//
// Text columns that may be absent in the source are sql.NullString; a
// cleaned record never has Valid == false in any of them. ReleaseDateRaw
// keeps the source text so that cleaning can be re-applied to its own output.
type MovieRecord struct {
	ID                  int64          `json:"id" validate:"gte=0"`
	IMDbID              sql.NullString `json:"imdb_id" validate:"required"`
	Popularity          float64        `json:"popularity" validate:"gte=0"`
	Budget              int64          `json:"budget" validate:"gte=0"`
	Revenue             int64          `json:"revenue" validate:"gte=0"`
	OriginalTitle       sql.NullString `json:"original_title" validate:"required"`
	Cast                sql.NullString `json:"cast" validate:"required"`
	Homepage            sql.NullString `json:"homepage" validate:"required"`
	Director            sql.NullString `json:"director" validate:"required"`
	Tagline             sql.NullString `json:"tagline" validate:"required"`
	Keywords            sql.NullString `json:"keywords" validate:"required"`
	Overview            sql.NullString `json:"overview" validate:"required"`
	Runtime             int            `json:"runtime" validate:"gte=0"`
	Genres              sql.NullString `json:"genres" validate:"required"`
	ProductionCompanies sql.NullString `json:"production_companies" validate:"required"`
	ReleaseDateRaw      sql.NullString `json:"release_date_raw" validate:"required"`
	ReleaseDate         time.Time      `json:"release_date" validate:"required"`
	VoteCount           int64          `json:"vote_count" validate:"gte=0"`
	VoteAverage         float64        `json:"vote_average" validate:"gte=0,lte=10"`
	ReleaseYear         int            `json:"release_year"`
	BudgetAdj           float64        `json:"budget_adj" validate:"gte=0,whole"`
	RevenueAdj          float64        `json:"revenue_adj" validate:"gte=0,whole"`
}

// The validate tags describe a cleaned record; raw loader output is not
// expected to satisfy them.

// Title returns the original title, or the sentinel when it is missing.
func (m MovieRecord) Title() string {
	if !m.OriginalTitle.Valid {
		return NotAvailable
	}
	return m.OriginalTitle.String
}

// TextFields returns pointers to every optional text column except imdb_id,
// keyed by column name. The cleaner uses it to apply sentinel substitution.
func (m *MovieRecord) TextFields() []NamedText {
	return []NamedText{
		{Column: ColOriginalTitle, Value: &m.OriginalTitle},
		{Column: ColCast, Value: &m.Cast},
		{Column: ColHomepage, Value: &m.Homepage},
		{Column: ColDirector, Value: &m.Director},
		{Column: ColTagline, Value: &m.Tagline},
		{Column: ColKeywords, Value: &m.Keywords},
		{Column: ColOverview, Value: &m.Overview},
		{Column: ColGenres, Value: &m.Genres},
		{Column: ColProductionCompanies, Value: &m.ProductionCompanies},
		{Column: ColReleaseDate, Value: &m.ReleaseDateRaw},
	}
}

// Row formats the record as strings in MovieColumns order. A parsed release
// date is written as DateLayout; otherwise the source text is kept. Missing
// text values become empty cells.
func (m MovieRecord) Row() []string {
	date := m.ReleaseDateRaw.String
	if !m.ReleaseDate.IsZero() {
		date = m.ReleaseDate.Format(DateLayout)
	}
	return []string{
		strconv.FormatInt(m.ID, 10),
		m.IMDbID.String,
		formatFloat(m.Popularity),
		strconv.FormatInt(m.Budget, 10),
		strconv.FormatInt(m.Revenue, 10),
		m.OriginalTitle.String,
		m.Cast.String,
		m.Homepage.String,
		m.Director.String,
		m.Tagline.String,
		m.Keywords.String,
		m.Overview.String,
		strconv.Itoa(m.Runtime),
		m.Genres.String,
		m.ProductionCompanies.String,
		date,
		strconv.FormatInt(m.VoteCount, 10),
		formatFloat(m.VoteAverage),
		strconv.Itoa(m.ReleaseYear),
		formatFloat(m.BudgetAdj),
		formatFloat(m.RevenueAdj),
	}
}

// Key identifies a record by the values of all of its columns. Two records
// with equal keys are duplicates.
func (m MovieRecord) Key() string {
	var b strings.Builder
	for i, v := range m.Row() {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(v)
	}
	// missing and empty text must not collide
	for _, f := range m.TextFields() {
		if f.Value.Valid {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NamedText pairs a column name with its nullable value.
type NamedText struct {
	Column string
	Value  *sql.NullString
}

// MovieTable is an ordered, read-only set of movie records handed between
// pipeline stages. Construct it with NewMovieTable; it copies its input.
type MovieTable struct {
	records []MovieRecord
}

// NewMovieTable creates a table holding a copy of records.
func NewMovieTable(records []MovieRecord) MovieTable {
	cp := make([]MovieRecord, len(records))
	copy(cp, records)
	return MovieTable{records: cp}
}

// Len returns the number of records.
func (t MovieTable) Len() int { return len(t.records) }

// At returns the i-th record by value.
func (t MovieTable) At(i int) MovieRecord { return t.records[i] }

// Records returns a copy of the records.
func (t MovieTable) Records() []MovieRecord {
	cp := make([]MovieRecord, len(t.records))
	copy(cp, t.records)
	return cp
}

// Each calls fn for every record in order.
func (t MovieTable) Each(fn func(i int, r MovieRecord)) {
	for i, r := range t.records {
		fn(i, r)
	}
}
