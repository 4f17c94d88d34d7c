package dataprocessing

import (
	"moviescope/pkg/contracts/domain"
)

// Profile describes the shape of table: missing and distinct values per
// column, zero-valued monetary columns, and full-row duplicates. It is
// computed for the raw and the cleaned table so the report can show what
// cleaning changed.
func Profile(table domain.MovieTable) domain.DatasetProfile {
	profile := domain.DatasetProfile{
		Rows:    table.Len(),
		Columns: len(domain.MovieColumns),
		Missing: make(map[string]int, len(domain.MovieColumns)),
		Unique:  make(map[string]int, len(domain.MovieColumns)),
	}

	distinct := make([]map[string]struct{}, len(domain.MovieColumns))
	for i := range distinct {
		distinct[i] = make(map[string]struct{})
	}
	for _, c := range domain.MovieColumns {
		profile.Missing[c] = 0
	}
	seen := make(map[string]bool, table.Len())

	table.Each(func(_ int, r domain.MovieRecord) {
		missing := missingColumns(r)
		for i, v := range r.Row() {
			column := domain.MovieColumns[i]
			if missing[column] {
				profile.Missing[column]++
				continue
			}
			distinct[i][v] = struct{}{}
		}

		if r.Budget == 0 {
			profile.ZeroBudget++
		}
		if r.Revenue == 0 {
			profile.ZeroRevenue++
		}
		if r.BudgetAdj == 0 {
			profile.ZeroBudgetAdj++
		}
		if r.RevenueAdj == 0 {
			profile.ZeroRevenueAdj++
		}

		key := r.Key()
		if seen[key] {
			profile.Duplicates++
		}
		seen[key] = true
	})

	for i, c := range domain.MovieColumns {
		profile.Unique[c] = len(distinct[i])
	}
	return profile
}

func missingColumns(r domain.MovieRecord) map[string]bool {
	missing := make(map[string]bool)
	if !r.IMDbID.Valid {
		missing[domain.ColIMDbID] = true
	}
	for _, f := range r.TextFields() {
		if !f.Value.Valid {
			missing[f.Column] = true
		}
	}
	return missing
}
