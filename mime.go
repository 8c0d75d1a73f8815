// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpd

import "strings"

// MimeType content-type classification of a served resource
type MimeType uint8

const (
	MimeHTML MimeType = iota
	MimeCSS
	MimePlainText
	MimeJSON
	MimePNG
)

// mimeExtensions extension table, matched exactly and case-sensitively
var mimeExtensions = map[string]MimeType{
	"html": MimeHTML,
	"htm":  MimeHTML,
	"css":  MimeCSS,
	"json": MimeJSON,
	"png":  MimePNG,
}

// String the Content-Type header value of the classification.
// Text types carry a charset suffix.
func (m MimeType) String() string {
	switch m {
	case MimeHTML:
		return "text/html; charset=UTF-8"
	case MimeCSS:
		return "text/css; charset=UTF-8"
	case MimePlainText:
		return "text/plain; charset=UTF-8"
	case MimeJSON:
		return "application/json"
	case MimePNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// ClassifyMime classifies filename by the text after its last dot.
// Files without a dot or with an unknown extension are plain text.
func ClassifyMime(filename string) MimeType {
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return MimePlainText
	}
	if mime, ok := mimeExtensions[filename[dot+1:]]; ok {
		return mime
	}
	return MimePlainText
}
