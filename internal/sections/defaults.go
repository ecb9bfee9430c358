package sections

import "github.com/calebwren/redline/internal/match"

// defaultDescriptors is the built-in map of the Post Review Action Plan
// template. Row keywords locate the section's backing row inside the
// detected table; crop regions are normalized page coordinates tuned
// against the scanned template.
func defaultDescriptors() []Descriptor {
	actionTable := match.TableCriteria{
		Keywords: []string{"action", "recommendation"},
		MinRows:  2,
		MinCols:  2,
	}
	goalsTable := match.TableCriteria{
		Keywords: []string{"goals", "achieved"},
		MinRows:  2,
		MinCols:  2,
	}

	return []Descriptor{
		{
			Name:        "Section_1_1",
			Title:       "Scope of Review",
			Layout:      LayoutSingle,
			RowKeywords: []string{"scope of review"},
			Table:       actionTable,
			LeftColumn:  1,
			Region:      Region{Page: 1, X: 0.05, Y: 0.12, Width: 0.90, Height: 0.14},
			Prompt:      "single-box",
		},
		{
			Name:        "Section_1_2",
			Title:       "Your Goals",
			Layout:      LayoutGoals,
			RowKeywords: []string{"your goals"},
			Table:       goalsTable,
			LeftColumn:  0,
			RightColumn: 1,
			Region:      Region{Page: 1, X: 0.05, Y: 0.28, Width: 0.90, Height: 0.30},
			Prompt:      "goals",
		},
		{
			Name:        "Section_1_3",
			Title:       "Changes in Circumstances",
			Layout:      LayoutDual,
			RowKeywords: []string{"changes in circumstances"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 1, X: 0.05, Y: 0.60, Width: 0.90, Height: 0.18},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_2_1",
			Title:       "Cash Flow & Budgeting",
			Layout:      LayoutDual,
			RowKeywords: []string{"cash flow", "budget"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 2, X: 0.05, Y: 0.08, Width: 0.90, Height: 0.16},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_2_2",
			Title:       "Debt Management",
			Layout:      LayoutTwoPart,
			RowKeywords: []string{"debt management"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 2, X: 0.05, Y: 0.26, Width: 0.90, Height: 0.16},
			Prompt:      "two-part",
		},
		{
			Name:        "Section_2_3",
			Title:       "Emergency Funds",
			Layout:      LayoutSingle,
			RowKeywords: []string{"emergency fund"},
			Table:       actionTable,
			LeftColumn:  1,
			Region:      Region{Page: 2, X: 0.05, Y: 0.44, Width: 0.90, Height: 0.12},
			Prompt:      "single-box",
		},
		{
			Name:        "Section_2_4",
			Title:       "Savings & Investments",
			Layout:      LayoutDual,
			RowKeywords: []string{"savings", "investment"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 2, X: 0.05, Y: 0.58, Width: 0.90, Height: 0.18},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_2_5",
			Title:       "Investment Property",
			Layout:      LayoutDual,
			RowKeywords: []string{"investment property"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 2, X: 0.05, Y: 0.78, Width: 0.90, Height: 0.16},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_3_1",
			Title:       "Superannuation",
			Layout:      LayoutDual,
			RowKeywords: []string{"superannuation"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 3, X: 0.05, Y: 0.08, Width: 0.90, Height: 0.18},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_3_2",
			Title:       "Contribution Strategies",
			Layout:      LayoutTwoPart,
			RowKeywords: []string{"contribution"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 3, X: 0.05, Y: 0.28, Width: 0.90, Height: 0.16},
			Prompt:      "two-part",
		},
		{
			Name:        "Section_3_3",
			Title:       "Retirement Income",
			Layout:      LayoutDual,
			RowKeywords: []string{"retirement income"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 3, X: 0.05, Y: 0.46, Width: 0.90, Height: 0.16},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_3_4",
			Title:       "Centrelink & Entitlements",
			Layout:      LayoutSingle,
			RowKeywords: []string{"centrelink", "entitlement"},
			Table:       actionTable,
			LeftColumn:  1,
			Region:      Region{Page: 3, X: 0.05, Y: 0.64, Width: 0.90, Height: 0.12},
			Prompt:      "single-box",
		},
		{
			Name:        "Section_4_1",
			Title:       "Personal Insurance",
			Layout:      LayoutDual,
			RowKeywords: []string{"personal insurance"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 3, X: 0.05, Y: 0.78, Width: 0.90, Height: 0.16},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_4_2",
			Title:       "Life & TPD Cover",
			Layout:      LayoutTwoPart,
			RowKeywords: []string{"life", "tpd"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 4, X: 0.05, Y: 0.08, Width: 0.90, Height: 0.16},
			Prompt:      "two-part",
		},
		{
			Name:        "Section_4_3",
			Title:       "Income Protection",
			Layout:      LayoutSingle,
			RowKeywords: []string{"income protection"},
			Table:       actionTable,
			LeftColumn:  1,
			Region:      Region{Page: 4, X: 0.05, Y: 0.26, Width: 0.90, Height: 0.12},
			Prompt:      "single-box",
		},
		{
			Name:        "Section_4_4",
			Title:       "Estate Planning",
			Layout:      LayoutDual,
			RowKeywords: []string{"estate planning"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 4, X: 0.05, Y: 0.40, Width: 0.90, Height: 0.16},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_4_5",
			Title:       "Powers of Attorney",
			Layout:      LayoutSingle,
			RowKeywords: []string{"power of attorney", "attorney"},
			Table:       actionTable,
			LeftColumn:  1,
			Region:      Region{Page: 4, X: 0.05, Y: 0.58, Width: 0.90, Height: 0.12},
			Prompt:      "single-box",
		},
		{
			Name:        "Section_4_6",
			Title:       "Additional Notes",
			Layout:      LayoutBlank,
			RowKeywords: []string{"additional notes"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 4, X: 0.05, Y: 0.72, Width: 0.90, Height: 0.16},
			Prompt:      "blank-box",
		},
		{
			Name:        "Section_5_1",
			Title:       "Ongoing Review Service",
			Layout:      LayoutDual,
			RowKeywords: []string{"ongoing review", "review service"},
			Table:       actionTable,
			LeftColumn:  1,
			RightColumn: 2,
			Region:      Region{Page: 5, X: 0.05, Y: 0.10, Width: 0.90, Height: 0.16},
			Prompt:      "dual-box",
		},
		{
			Name:        "Section_5_2",
			Title:       "Fees & Authority",
			Layout:      LayoutSingle,
			RowKeywords: []string{"fees", "authority"},
			Table:       actionTable,
			LeftColumn:  1,
			Region:      Region{Page: 5, X: 0.05, Y: 0.28, Width: 0.90, Height: 0.14},
			Prompt:      "single-box",
		},
	}
}
