package docx

import "errors"

var (
	ErrOpenArchive   = errors.New("failed to open document archive")
	ErrMissingPart   = errors.New("archive does not contain word/document.xml")
	ErrMalformedXML  = errors.New("malformed document xml")
	ErrRowOutOfRange = errors.New("table row index out of range")
	ErrDetachedNode  = errors.New("node is no longer attached to the document")
	ErrWriteArchive  = errors.New("failed to write document archive")
)
