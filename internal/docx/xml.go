package docx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// nodeKind discriminates tree node types.
type nodeKind int

const (
	kindElement nodeKind = iota
	kindText
	kindRaw // comments, processing instructions, CDATA, doctype
)

// xmlNode is one node of a raw-preserving XML tree. Element nodes keep
// their original start tag verbatim (prefixes, attributes, whitespace);
// text and raw nodes keep their source bytes untouched. Serializing an
// unmodified tree reproduces the input byte for byte, which is what
// keeps untargeted document content stable across a load/save cycle.
type xmlNode struct {
	kind        nodeKind
	name        string // prefixed element name, e.g. "w:p"
	local       string // name without prefix, e.g. "p"
	openTag     []byte // raw start tag including angle brackets
	selfClosing bool
	children    []*xmlNode
	parent      *xmlNode
	raw         []byte // text/raw nodes only, source bytes
}

func (n *xmlNode) appendChild(c *xmlNode) {
	c.parent = n
	n.children = append(n.children, c)
}

// removeChild detaches c from n. Returns false if c is not a child of n.
func (n *xmlNode) removeChild(c *xmlNode) bool {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// childrenNamed returns direct element children with the given local name.
func (n *xmlNode) childrenNamed(local string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.children {
		if c.kind == kindElement && c.local == local {
			out = append(out, c)
		}
	}
	return out
}

// firstChild returns the first direct element child with the given local name.
func (n *xmlNode) firstChild(local string) *xmlNode {
	for _, c := range n.children {
		if c.kind == kindElement && c.local == local {
			return c
		}
	}
	return nil
}

// descendantsNamed collects descendant elements with the given local name
// in document order.
func (n *xmlNode) descendantsNamed(local string, out []*xmlNode) []*xmlNode {
	for _, c := range n.children {
		if c.kind != kindElement {
			continue
		}
		if c.local == local {
			out = append(out, c)
		}
		out = c.descendantsNamed(local, out)
	}
	return out
}

// innerText concatenates and unescapes the text content of n's subtree.
func (n *xmlNode) innerText(sb *strings.Builder) {
	for _, c := range n.children {
		switch c.kind {
		case kindText:
			sb.WriteString(xmlUnescape(string(c.raw)))
		case kindElement:
			c.innerText(sb)
		}
	}
}

// setInnerText replaces n's children with a single escaped text node.
func (n *xmlNode) setInnerText(s string) {
	var buf bytes.Buffer
	xmlEscape(&buf, s)
	text := &xmlNode{kind: kindText, raw: buf.Bytes(), parent: n}
	n.children = []*xmlNode{text}
	n.reopen()
}

// reopen converts a self-closing element into an open/close pair so that
// children can be serialized inside it.
func (n *xmlNode) reopen() {
	if !n.selfClosing {
		return
	}
	tag := bytes.TrimSuffix(n.openTag, []byte(">"))
	tag = bytes.TrimRight(tag, "/ \t\r\n")
	n.openTag = append(append([]byte{}, tag...), '>')
	n.selfClosing = false
}

// clone deep-copies a subtree. Raw byte slices are shared; they are never
// mutated in place.
func (n *xmlNode) clone() *xmlNode {
	c := &xmlNode{
		kind:        n.kind,
		name:        n.name,
		local:       n.local,
		openTag:     n.openTag,
		selfClosing: n.selfClosing,
		raw:         n.raw,
	}
	for _, ch := range n.children {
		c.appendChild(ch.clone())
	}
	return c
}

// parseXML builds a raw-preserving tree from a well-formed XML document.
// The returned node is a synthetic root whose children are the document's
// prolog, comments, and single top-level element.
func parseXML(data []byte) (*xmlNode, error) {
	root := &xmlNode{kind: kindElement, name: "", local: ""}
	cur := root
	i := 0
	n := len(data)

	for i < n {
		if data[i] != '<' {
			j := bytes.IndexByte(data[i:], '<')
			if j < 0 {
				j = n - i
			}
			cur.appendChild(&xmlNode{kind: kindText, raw: data[i : i+j]})
			i += j
			continue
		}

		switch {
		case bytes.HasPrefix(data[i:], []byte("</")):
			j := bytes.IndexByte(data[i:], '>')
			if j < 0 {
				return nil, fmt.Errorf("unterminated close tag at offset %d", i)
			}
			name := strings.TrimSpace(string(data[i+2 : i+j]))
			if cur.name != name {
				return nil, fmt.Errorf("mismatched close tag </%s> for <%s> at offset %d", name, cur.name, i)
			}
			cur = cur.parent
			i += j + 1

		case bytes.HasPrefix(data[i:], []byte("<!--")):
			j := bytes.Index(data[i:], []byte("-->"))
			if j < 0 {
				return nil, fmt.Errorf("unterminated comment at offset %d", i)
			}
			cur.appendChild(&xmlNode{kind: kindRaw, raw: data[i : i+j+3]})
			i += j + 3

		case bytes.HasPrefix(data[i:], []byte("<![CDATA[")):
			j := bytes.Index(data[i:], []byte("]]>"))
			if j < 0 {
				return nil, fmt.Errorf("unterminated CDATA at offset %d", i)
			}
			cur.appendChild(&xmlNode{kind: kindRaw, raw: data[i : i+j+3]})
			i += j + 3

		case bytes.HasPrefix(data[i:], []byte("<?")):
			j := bytes.Index(data[i:], []byte("?>"))
			if j < 0 {
				return nil, fmt.Errorf("unterminated processing instruction at offset %d", i)
			}
			cur.appendChild(&xmlNode{kind: kindRaw, raw: data[i : i+j+2]})
			i += j + 2

		case bytes.HasPrefix(data[i:], []byte("<!")):
			j := bytes.IndexByte(data[i:], '>')
			if j < 0 {
				return nil, fmt.Errorf("unterminated declaration at offset %d", i)
			}
			cur.appendChild(&xmlNode{kind: kindRaw, raw: data[i : i+j+1]})
			i += j + 1

		default:
			end, err := findTagEnd(data, i)
			if err != nil {
				return nil, err
			}
			tag := data[i : end+1]
			selfClosing := len(tag) >= 2 && tag[len(tag)-2] == '/'
			name := tagName(tag)
			el := &xmlNode{
				kind:        kindElement,
				name:        name,
				local:       localName(name),
				openTag:     tag,
				selfClosing: selfClosing,
			}
			cur.appendChild(el)
			if !selfClosing {
				cur = el
			}
			i = end + 1
		}
	}

	if cur != root {
		return nil, fmt.Errorf("unclosed element <%s>", cur.name)
	}
	return root, nil
}

// findTagEnd locates the '>' terminating the tag that starts at data[start],
// skipping '>' characters inside quoted attribute values.
func findTagEnd(data []byte, start int) (int, error) {
	var quote byte
	for i := start + 1; i < len(data); i++ {
		c := data[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return i, nil
		}
	}
	return 0, fmt.Errorf("unterminated tag at offset %d", start)
}

// tagName extracts the element name from a raw start tag.
func tagName(tag []byte) string {
	inner := tag[1:]
	end := len(inner)
	for i, c := range inner {
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '/' || c == '>' {
			end = i
			break
		}
	}
	return string(inner[:end])
}

// localName strips a namespace prefix from a prefixed element name.
func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// attrValue extracts a named attribute from a raw start tag. The name must
// appear exactly as written in the source, prefix included.
func attrValue(tag []byte, name string) (string, bool) {
	s := string(tag)
	for pos := 0; ; {
		idx := strings.Index(s[pos:], name+"=")
		if idx < 0 {
			return "", false
		}
		idx += pos
		// Must be preceded by whitespace to avoid matching attribute suffixes.
		if idx == 0 || !isSpace(s[idx-1]) {
			pos = idx + len(name)
			continue
		}
		rest := s[idx+len(name)+1:]
		if len(rest) == 0 {
			return "", false
		}
		quote := rest[0]
		if quote != '"' && quote != '\'' {
			return "", false
		}
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return "", false
		}
		return xmlUnescape(rest[1 : 1+end]), true
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// serialize writes the tree back out. Unmodified nodes reproduce their
// source bytes exactly.
func serialize(n *xmlNode, buf *bytes.Buffer) {
	switch n.kind {
	case kindText, kindRaw:
		buf.Write(n.raw)
	case kindElement:
		if n.name == "" { // synthetic root
			for _, c := range n.children {
				serialize(c, buf)
			}
			return
		}
		buf.Write(n.openTag)
		if n.selfClosing {
			return
		}
		for _, c := range n.children {
			serialize(c, buf)
		}
		buf.WriteString("</")
		buf.WriteString(n.name)
		buf.WriteByte('>')
	}
}

func xmlEscape(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
}

func xmlUnescape(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			sb.WriteString(s[i:])
			break
		}
		entity := s[i+1 : i+end]
		switch {
		case entity == "amp":
			sb.WriteByte('&')
		case entity == "lt":
			sb.WriteByte('<')
		case entity == "gt":
			sb.WriteByte('>')
		case entity == "quot":
			sb.WriteByte('"')
		case entity == "apos":
			sb.WriteByte('\'')
		case strings.HasPrefix(entity, "#x"), strings.HasPrefix(entity, "#X"):
			if v, err := strconv.ParseInt(entity[2:], 16, 32); err == nil {
				sb.WriteRune(rune(v))
			}
		case strings.HasPrefix(entity, "#"):
			if v, err := strconv.ParseInt(entity[1:], 10, 32); err == nil {
				sb.WriteRune(rune(v))
			}
		default:
			sb.WriteString(s[i : i+end+1])
		}
		i += end + 1
	}
	return sb.String()
}
