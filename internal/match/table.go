package match

import "strings"

// TableCriteria describes what a section expects its backing table to look
// like. A zero value accepts the first table in the document.
type TableCriteria struct {
	Keywords []string `yaml:"keywords"`
	MinRows  int      `yaml:"min_rows"`
	MinCols  int      `yaml:"min_cols"`
}

// TableInfo is the shape and header content of one document table, in
// document order.
type TableInfo struct {
	Index  int
	Rows   int
	Cols   int
	Header string
}

// DetectTable returns the index of the first table satisfying the criteria:
// enough rows and columns, and (when keywords are given) at least one
// keyword present in the header row. Returns false when no table qualifies.
func DetectTable(criteria TableCriteria, tables []TableInfo) (int, bool) {
	for _, tbl := range tables {
		if tbl.Rows < criteria.MinRows || tbl.Cols < criteria.MinCols {
			continue
		}
		if len(criteria.Keywords) == 0 {
			return tbl.Index, true
		}
		header := Normalize(tbl.Header)
		for _, kw := range criteria.Keywords {
			needle := Normalize(kw)
			if needle == "" {
				continue
			}
			if strings.Contains(header, needle) {
				return tbl.Index, true
			}
		}
	}
	return 0, false
}
