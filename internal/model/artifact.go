package model

type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Artifact is the fully rendered, dispatch-ready report content.
type Artifact struct {
	Subject     string
	Body        string
	ContentType string
	Attachments []Attachment
}
