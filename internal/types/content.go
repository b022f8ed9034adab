package types

// ContentType is the closed set of file kinds the server will send.
type ContentType int

const (
	HTML ContentType = iota
	PDF
	CSS
	JPG
)

var mimeTypes = [...]string{
	HTML: "text/html",
	PDF:  "application/pdf",
	CSS:  "text/css",
	JPG:  "image/jpeg",
}

// MIME returns the media type sent in the Content-Type header.
func (c ContentType) MIME() string {
	if c < 0 || int(c) >= len(mimeTypes) {
		return mimeTypes[HTML]
	}
	return mimeTypes[c]
}

func (c ContentType) String() string {
	switch c {
	case HTML:
		return "HTML"
	case PDF:
		return "PDF"
	case CSS:
		return "CSS"
	case JPG:
		return "JPG"
	}
	return "Unknown"
}

// FileContents is a file read fully into memory, tagged with its content type.
type FileContents struct {
	Type ContentType
	Data []byte
}

// fixed status lines, written without a trailing line terminator
const (
	StatusOK       = "HTTP/1.1 200 OK"
	StatusNotFound = "HTTP/1.1 404 Not Found"
)
