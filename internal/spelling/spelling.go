// Package spelling corrects common OCR transcription errors in text
// recovered from scanned documents, biased toward financial-planning
// vocabulary. A Corrector is an explicit constructed dependency; callers
// own its lifetime.
package spelling

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Correction records one applied fix.
type Correction struct {
	From string
	To   string
}

// Report summarizes a correction pass.
type Report struct {
	Input       string
	Output      string
	Corrections []Correction
}

// Changed reports whether the pass altered the text.
func (r Report) Changed() bool {
	return len(r.Corrections) > 0
}

// Corrector applies character-substitution patterns and vocabulary fixes.
// Numbers, currency amounts, dates, and percentages are shielded from
// substitution so "$1,500" never becomes "$l,SOO" repairs in reverse.
type Corrector struct {
	vocabulary map[string]string
	patterns   []pattern
	preserve   *regexp.Regexp
}

type pattern struct {
	re          *regexp.Regexp
	replacement string
}

// defaultVocabulary maps frequent OCR misreads to the financial terms the
// source documents actually use. Keys are matched case-insensitively as
// whole words.
var defaultVocabulary = map[string]string{
	"superannuat1on": "superannuation",
	"superannuatlon": "superannuation",
	"lnsurance":      "insurance",
	"1nsurance":      "insurance",
	"lnvestment":     "investment",
	"mortgaqe":       "mortgage",
	"retlrement":     "retirement",
	"ret1rement":     "retirement",
	"pens1on":        "pension",
	"penslon":        "pension",
	"dlvidend":       "dividend",
	"centrelink":     "Centrelink",
	"centrellnk":     "Centrelink",
	"benef1ciary":    "beneficiary",
	"beneflciary":    "beneficiary",
	"annulty":        "annuity",
	"portfol1o":      "portfolio",
	"portfollo":      "portfolio",
	"allocatlon":     "allocation",
	"contrlbution":   "contribution",
	"contr1bution":   "contribution",
	"estat3":         "estate",
	"testamentarv":   "testamentary",
}

// characterPatterns repair systematic glyph confusions inside alphabetic
// words. They never run inside preserved spans.
var characterPatterns = []struct {
	expr        string
	replacement string
}{
	{`\b([A-Za-z]*)0([a-z]+)\b`, "${1}o${2}"},  // zero for o: c0ver
	{`\b([A-Za-z]+)0([a-z]*)\b`, "${1}o${2}"},  // zero for o: accu0nt
	{`\b1([a-z]{2,})\b`, "l${1}"},              // leading one for l: 1oan
	{`\b([A-Za-z]+)vv([a-z]*)\b`, "${1}w${2}"}, // double v for w: revievv
	{`\brn([a-z]+)\b`, "m${1}"},                // rn for m: rnortgage
}

// preservePattern shields numeric content: currency, percentages, dates,
// plain numbers, and policy-style identifiers.
const preservePattern = `\$[\d,]+(?:\.\d+)?|\d+(?:\.\d+)?%|\d{1,2}/\d{1,2}/\d{2,4}|\b\d[\d,]*(?:\.\d+)?\b`

// New builds a Corrector with the default financial vocabulary and
// substitution patterns, plus any extra vocabulary the caller supplies.
func New(extraVocabulary map[string]string) *Corrector {
	vocab := make(map[string]string, len(defaultVocabulary)+len(extraVocabulary))
	for k, v := range defaultVocabulary {
		vocab[strings.ToLower(k)] = v
	}
	for k, v := range extraVocabulary {
		vocab[strings.ToLower(k)] = v
	}

	c := &Corrector{
		vocabulary: vocab,
		preserve:   regexp.MustCompile(preservePattern),
	}
	for _, p := range characterPatterns {
		c.patterns = append(c.patterns, pattern{
			re:          regexp.MustCompile(p.expr),
			replacement: p.replacement,
		})
	}
	return c
}

// Correct runs one pass over the text and reports every fix applied.
func (c *Corrector) Correct(text string) Report {
	report := Report{Input: text}
	if text == "" {
		report.Output = text
		return report
	}

	// Swap preserved spans for placeholders so substitutions cannot touch
	// them, then restore after the word pass.
	placeheld, spans := c.shield(text)

	words := strings.Split(placeheld, " ")
	for i, w := range words {
		fixed := c.correctWord(w)
		if fixed != w {
			report.Corrections = append(report.Corrections, Correction{From: w, To: fixed})
			words[i] = fixed
		}
	}
	out := strings.Join(words, " ")

	report.Output = c.restore(out, spans)
	return report
}

func (c *Corrector) shield(text string) (string, []string) {
	var spans []string
	out := c.preserve.ReplaceAllStringFunc(text, func(m string) string {
		spans = append(spans, m)
		return placeholder(len(spans) - 1)
	})
	return out, spans
}

func (c *Corrector) restore(text string, spans []string) string {
	// Restore in reverse so placeholder 1 never corrupts placeholder 10.
	for i := len(spans) - 1; i >= 0; i-- {
		text = strings.Replace(text, placeholder(i), spans[i], 1)
	}
	return text
}

func placeholder(i int) string {
	return "\x00PRESERVED" + strconv.Itoa(i) + "\x00"
}

// correctWord fixes one token: vocabulary lookup first (stripping edge
// punctuation), then character patterns.
func (c *Corrector) correctWord(w string) string {
	core, prefix, suffix := trimPunct(w)
	if core == "" || strings.Contains(core, "\x00") {
		return w
	}
	if fixed, ok := c.vocabulary[strings.ToLower(core)]; ok {
		return prefix + matchCase(core, fixed) + suffix
	}
	fixed := core
	for _, p := range c.patterns {
		fixed = p.re.ReplaceAllString(fixed, p.replacement)
	}
	if _, ok := c.vocabulary[strings.ToLower(fixed)]; ok {
		fixed = c.vocabulary[strings.ToLower(fixed)]
	}
	return prefix + fixed + suffix
}

func trimPunct(w string) (core, prefix, suffix string) {
	start := 0
	end := len(w)
	for start < end && isPunct(w[start]) {
		start++
	}
	for end > start && isPunct(w[end-1]) {
		end--
	}
	return w[start:end], w[:start], w[end:]
}

func isPunct(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return false
	case c == '$', c == '\x00':
		return false
	default:
		return true
	}
}

// matchCase echoes the source word's leading-capital or all-caps shape
// onto the corrected form.
func matchCase(source, fixed string) string {
	if source == strings.ToUpper(source) && len(source) > 1 {
		return strings.ToUpper(fixed)
	}
	if source[0] >= 'A' && source[0] <= 'Z' {
		return strings.ToUpper(fixed[:1]) + fixed[1:]
	}
	return fixed
}

// Vocabulary lists the corrector's known terms, sorted, for diagnostics.
func (c *Corrector) Vocabulary() []string {
	out := make([]string, 0, len(c.vocabulary))
	for k := range c.vocabulary {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
