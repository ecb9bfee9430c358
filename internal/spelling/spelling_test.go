package spelling_test

import (
	"strings"
	"testing"

	"github.com/calebwren/redline/internal/spelling"
)

func TestCorrect(t *testing.T) {
	c := spelling.New(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"vocabulary fix",
			"increase your superannuatlon balance",
			"increase your superannuation balance",
		},
		{
			"leading capital preserved",
			"Lnsurance review due",
			"Insurance review due",
		},
		{
			"zero for o",
			"c0nsolidate your acc0unts",
			"consolidate your accounts",
		},
		{
			"rn for m",
			"rnortgage offset",
			"mortgage offset",
		},
		{
			"double v for w",
			"revievv the policy",
			"review the policy",
		},
		{
			"currency preserved",
			"contribute $1,500 to superannuatlon",
			"contribute $1,500 to superannuation",
		},
		{
			"percentages and dates preserved",
			"7.5% return by 30/06/2026",
			"7.5% return by 30/06/2026",
		},
		{
			"plain numbers untouched",
			"retire at 60 with 25 years of savings",
			"retire at 60 with 25 years of savings",
		},
		{
			"punctuation kept around fixes",
			"(pens1on), dlvidend.",
			"(pension), dividend.",
		},
		{
			"clean text unchanged",
			"review insurance cover annually",
			"review insurance cover annually",
		},
		{
			"empty input",
			"",
			"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Correct(tc.in)
			if got.Output != tc.want {
				t.Errorf("got %q, want %q", got.Output, tc.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	c := spelling.New(nil)

	t.Run("corrections are itemized", func(t *testing.T) {
		rep := c.Correct("lnvestment in superannuatlon")
		if !rep.Changed() {
			t.Fatal("expected changes")
		}
		if len(rep.Corrections) != 2 {
			t.Fatalf("got %+v", rep.Corrections)
		}
		if rep.Corrections[0].To != "investment" || rep.Corrections[1].To != "superannuation" {
			t.Errorf("got %+v", rep.Corrections)
		}
	})

	t.Run("no changes reported for clean text", func(t *testing.T) {
		if rep := c.Correct("estate planning"); rep.Changed() {
			t.Errorf("unexpected corrections: %+v", rep.Corrections)
		}
	})
}

func TestExtraVocabulary(t *testing.T) {
	c := spelling.New(map[string]string{"acme5uper": "AcmeSuper"})
	rep := c.Correct("rollover to acme5uper fund")
	if rep.Output != "rollover to AcmeSuper fund" {
		t.Errorf("got %q", rep.Output)
	}

	t.Run("extra terms listed", func(t *testing.T) {
		found := false
		for _, v := range c.Vocabulary() {
			if v == "acme5uper" {
				found = true
			}
		}
		if !found {
			t.Error("extra vocabulary missing")
		}
	})
}

func TestManyPreservedSpans(t *testing.T) {
	c := spelling.New(nil)
	var parts []string
	for i := 0; i < 12; i++ {
		parts = append(parts, "$1,000")
	}
	in := strings.Join(parts, " and ")
	if got := c.Correct(in); got.Output != in {
		t.Errorf("preserved spans corrupted:\n got %q\nwant %q", got.Output, in)
	}
}
