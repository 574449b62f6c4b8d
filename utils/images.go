package utils

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

// MaxImagePayload caps the data-URI payload length (in characters) accepted
// for a scan. A separate Content-Length guard rejects bodies early before
// they are read.
const MaxImagePayload = 5_000_000

var dataURIRe = regexp.MustCompile(`^data:(image/(?:jpeg|png|gif|webp|heic|heif));base64,(.+)$`)

// ImagePayload is a decoded scan photo ready to hand to the vision model.
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

// ParseImageDataURI validates and decodes a base64 image data URI
// ("data:image/jpeg;base64,..."). Only the image formats the model accepts
// are allowed through. Size limits are enforced by the caller.
func ParseImageDataURI(uri string) (*ImagePayload, error) {
	m := dataURIRe.FindStringSubmatch(uri)
	if m == nil {
		return nil, fmt.Errorf("not a supported image data URI")
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %v", err)
	}
	return &ImagePayload{MIMEType: m[1], Data: data}, nil
}
