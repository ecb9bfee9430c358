// Package docx reads, mutates, and writes Word documents at the
// table/row/cell/paragraph/run level. The underlying XML is held as a
// raw-preserving tree: content the caller never touches round-trips
// byte-identically, so a load/save cycle leaves formatting, styles, and
// namespace declarations exactly as the source produced them.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const documentPart = "word/document.xml"

// part is one file inside the DOCX archive, carried verbatim unless it is
// the main document part.
type part struct {
	name string
	data []byte
}

// Document is an open DOCX file. It is not safe for concurrent mutation.
type Document struct {
	parts []part
	root  *xmlNode
	body  *xmlNode
}

// Open reads a DOCX file into memory.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenArchive, err)
	}
	return OpenBytes(data)
}

// OpenBytes reads a DOCX archive from memory.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenArchive, err)
	}

	doc := &Document{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, f.Name, err)
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: content})
	}

	var docXML []byte
	for _, p := range doc.parts {
		if p.name == documentPart {
			docXML = p.data
			break
		}
	}
	if docXML == nil {
		return nil, ErrMissingPart
	}

	root, err := parseXML(docXML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	var body *xmlNode
	if d := root.firstChild("document"); d != nil {
		body = d.firstChild("body")
	}
	if body == nil {
		return nil, fmt.Errorf("%w: no w:body element", ErrMalformedXML)
	}

	doc.root = root
	doc.body = body
	return doc, nil
}

// Save writes the document atomically: the archive is assembled in a
// temporary file beside the target and renamed into place, so a failed
// write never leaves a truncated document behind.
func (d *Document) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".redline-*.docx")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := d.write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	return nil
}

// Bytes assembles the current document state into a DOCX archive.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) write(w io.Writer) error {
	var docBuf bytes.Buffer
	serialize(d.root, &docBuf)

	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		content := p.data
		if p.name == documentPart {
			content = docBuf.Bytes()
		}
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWriteArchive, p.name, err)
		}
		if _, err := f.Write(content); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWriteArchive, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	return nil
}

// Tables returns the document's tables in document order, including tables
// nested inside other tables' cells.
func (d *Document) Tables() []*Table {
	nodes := d.body.descendantsNamed("tbl", nil)
	tables := make([]*Table, len(nodes))
	for i, n := range nodes {
		tables[i] = &Table{node: n}
	}
	return tables
}

// Paragraphs returns every paragraph in the document body, including those
// inside table cells, in document order.
func (d *Document) Paragraphs() []*Paragraph {
	nodes := d.body.descendantsNamed("p", nil)
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = &Paragraph{node: n}
	}
	return paras
}

// BodyParagraphs returns only the paragraphs that are direct children of the
// body, excluding table content.
func (d *Document) BodyParagraphs() []*Paragraph {
	nodes := d.body.childrenNamed("p")
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = &Paragraph{node: n}
	}
	return paras
}

// Table wraps a w:tbl element.
type Table struct {
	node *xmlNode
}

// Rows returns the table's rows in order.
func (t *Table) Rows() []*Row {
	nodes := t.node.childrenNamed("tr")
	rows := make([]*Row, len(nodes))
	for i, n := range nodes {
		rows[i] = &Row{node: n}
	}
	return rows
}

// RowCount reports the number of rows.
func (t *Table) RowCount() int {
	return len(t.node.childrenNamed("tr"))
}

// ColumnCount reports the cell count of the first row, or 0 for an empty
// table. Gridspan merges are not expanded; the original template tables this
// handles do not merge cells in their data rows.
func (t *Table) ColumnCount() int {
	rows := t.node.childrenNamed("tr")
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0].childrenNamed("tc"))
}

// RemoveRow deletes the row at index i from the table.
func (t *Table) RemoveRow(i int) error {
	rows := t.node.childrenNamed("tr")
	if i < 0 || i >= len(rows) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, i, len(rows))
	}
	if !t.node.removeChild(rows[i]) {
		return ErrDetachedNode
	}
	return nil
}

// Text concatenates the text of every cell in the table, newline separated.
func (t *Table) Text() string {
	var parts []string
	for _, row := range t.Rows() {
		for _, cell := range row.Cells() {
			if s := cell.Text(); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Row wraps a w:tr element.
type Row struct {
	node *xmlNode
}

// Cells returns the row's cells in order.
func (r *Row) Cells() []*Cell {
	nodes := r.node.childrenNamed("tc")
	cells := make([]*Cell, len(nodes))
	for i, n := range nodes {
		cells[i] = &Cell{node: n}
	}
	return cells
}

// Text concatenates cell text, tab separated.
func (r *Row) Text() string {
	cells := r.Cells()
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.Text()
	}
	return strings.Join(parts, "\t")
}

// Cell wraps a w:tc element.
type Cell struct {
	node *xmlNode
}

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	nodes := c.node.childrenNamed("p")
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = &Paragraph{node: n}
	}
	return paras
}

// Text joins the cell's paragraph texts with newlines.
func (c *Cell) Text() string {
	paras := c.Paragraphs()
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// Paragraph wraps a w:p element.
type Paragraph struct {
	node *xmlNode
}

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, t := range p.node.descendantsNamed("t", nil) {
		t.innerText(&sb)
	}
	return sb.String()
}

// Runs returns the paragraph's runs in order.
func (p *Paragraph) Runs() []*Run {
	nodes := p.node.descendantsNamed("r", nil)
	runs := make([]*Run, len(nodes))
	for i, n := range nodes {
		runs[i] = &Run{node: n}
	}
	return runs
}

// Clear empties the text of every run while leaving the paragraph node,
// its properties, and its runs' formatting in place.
func (p *Paragraph) Clear() {
	for _, t := range p.node.descendantsNamed("t", nil) {
		t.children = nil
	}
}

// SetText replaces the paragraph's runs with a single run carrying the
// given text. The new run inherits the run properties of the paragraph's
// first existing run, so font, size, bold, and italic survive the rewrite.
// Paragraph properties (w:pPr) are untouched.
func (p *Paragraph) SetText(text string) {
	var rPr *xmlNode
	if first := p.node.firstChild("r"); first != nil {
		if props := first.firstChild("rPr"); props != nil {
			rPr = props.clone()
		}
	}

	var kept []*xmlNode
	for _, c := range p.node.children {
		if c.kind == kindElement && c.local == "r" {
			continue
		}
		kept = append(kept, c)
	}
	p.node.children = kept

	run := newElement("w:r")
	if rPr != nil {
		run.appendChild(rPr)
	}
	t := newElementRaw("w:t", `<w:t xml:space="preserve">`)
	t.setInnerText(text)
	run.appendChild(t)
	p.node.appendChild(run)
	// An empty slot parsed from <w:p/> must become an open/close pair or
	// the appended run is dropped on serialization.
	p.node.reopen()
}

// Run wraps a w:r element.
type Run struct {
	node *xmlNode
}

// Text returns the run's text content.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, t := range r.node.descendantsNamed("t", nil) {
		t.innerText(&sb)
	}
	return sb.String()
}

// SetText replaces the run's text, adding a w:t element if the run has none.
func (r *Run) SetText(text string) {
	ts := r.node.descendantsNamed("t", nil)
	if len(ts) == 0 {
		t := newElementRaw("w:t", `<w:t xml:space="preserve">`)
		t.setInnerText(text)
		r.node.appendChild(t)
		r.node.reopen()
		return
	}
	ts[0].setInnerText(text)
	for _, extra := range ts[1:] {
		extra.children = nil
	}
}

// Bold reports whether the run carries bold formatting.
func (r *Run) Bold() bool {
	return r.hasToggle("b")
}

// Italic reports whether the run carries italic formatting.
func (r *Run) Italic() bool {
	return r.hasToggle("i")
}

func (r *Run) hasToggle(local string) bool {
	props := r.node.firstChild("rPr")
	if props == nil {
		return false
	}
	el := props.firstChild(local)
	if el == nil {
		return false
	}
	if v, ok := attrValue(el.openTag, "w:val"); ok {
		return v != "false" && v != "0" && v != "none"
	}
	return true
}

// Font returns the run's ascii font name, or "" when unset.
func (r *Run) Font() string {
	props := r.node.firstChild("rPr")
	if props == nil {
		return ""
	}
	fonts := props.firstChild("rFonts")
	if fonts == nil {
		return ""
	}
	v, _ := attrValue(fonts.openTag, "w:ascii")
	return v
}

// Size returns the run's font size in half-points, or "" when unset.
func (r *Run) Size() string {
	props := r.node.firstChild("rPr")
	if props == nil {
		return ""
	}
	sz := props.firstChild("sz")
	if sz == nil {
		return ""
	}
	v, _ := attrValue(sz.openTag, "w:val")
	return v
}

func newElement(name string) *xmlNode {
	return newElementRaw(name, "<"+name+">")
}

func newElementRaw(name, openTag string) *xmlNode {
	return &xmlNode{
		kind:    kindElement,
		name:    name,
		local:   localName(name),
		openTag: []byte(openTag),
	}
}
