package backend

import (
	"context"
	"io"
	"regexp"
	"strings"
)

// Document is a binary file produced by the API, e.g. a ticket PDF or a CSV report.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

var filenamePattern = regexp.MustCompile(`filename[^;=\n]*=((['"]).*?['"]|[^;\n]*)`)

// FilenameFromDisposition extracts the filename of a Content-Disposition
// header with quotes removed, or returns fallback.
func FilenameFromDisposition(header, fallback string) string {
	m := filenamePattern.FindStringSubmatch(header)
	if m == nil || m[1] == "" {
		return fallback
	}
	name := strings.NewReplacer(`"`, "", "'", "").Replace(strings.TrimSpace(m[1]))
	if name == "" {
		return fallback
	}
	return name
}

func (c *Client) download(ctx context.Context, r request, fallbackName, fallbackType string) (Document, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, NewOpError(r.op, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = fallbackType
	}

	return Document{
		Filename:    FilenameFromDisposition(resp.Header.Get("Content-Disposition"), fallbackName),
		ContentType: contentType,
		Data:        data,
	}, nil
}
