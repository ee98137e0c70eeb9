package models

type Document struct {
	ID       string
	Source   string
	Title    string
	Content  string
	Metadata map[string]interface{}
}

type ProcessedDocument struct {
	Document
	Chunks []string
}

// ImagePayload is held only for the duration of one request.
type ImagePayload struct {
	Path     string
	Data     []byte
	Encoded  string
	MIMEType string
}

// DataURI embeds the encoded image for a multi-part message.
func (p ImagePayload) DataURI() string {
	return "data:" + p.MIMEType + ";base64," + p.Encoded
}

// Run is one finished pipeline invocation.
type Run struct {
	ID       string
	Pipeline string
	Source   string
	Model    string
	Output   []byte
	Failed   bool
}
