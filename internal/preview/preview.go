// Package preview builds kkFileView onlinePreview links. kkFileView 3.x
// expects the target URL base64-encoded and then url-escaped.
package preview

import (
	"encoding/base64"
	"errors"
	"net/url"
	"path"
	"strings"
)

var ErrInvalidTarget = errors.New("target_url must end with a file extension or carry fullfilename=name.ext in the query")

// ValidateTarget checks that kkFileView will be able to detect the file
// type: either the URL path ends with an extension, or the query carries a
// fullfilename (or fullname/filename) value that does.
func ValidateTarget(targetURL string) error {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return ErrInvalidTarget
	}
	if path.Ext(parsed.Path) != "" {
		return nil
	}

	qs := parsed.Query()
	for _, key := range []string{"fullfilename", "fullname", "filename"} {
		if v := qs.Get(key); v != "" {
			if path.Ext(v) != "" {
				return nil
			}
			return ErrInvalidTarget
		}
	}
	return ErrInvalidTarget
}

func BuildPreviewURL(kkBaseURL, targetURL string) string {
	b64 := base64.StdEncoding.EncodeToString([]byte(targetURL))
	return strings.TrimRight(kkBaseURL, "/") + "/onlinePreview?url=" + url.QueryEscape(b64)
}

// TempURL is the gateway-hosted URL handed to kkFileView for an uploaded
// file. The original filename rides in the query so kkFileView can detect
// the type from its extension.
func TempURL(publicHost, fileID, originalName string) string {
	base := strings.TrimRight(publicHost, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + "/kkfileview/temp/" + fileID + "?fullfilename=" + url.QueryEscape(originalName)
}
