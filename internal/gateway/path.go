package gateway

import (
	"net/url"
	"strings"
)

// Expand substitutes ":name" placeholder segments of a path template.
// Values are path-escaped. Placeholders without a value are left in place.
func Expand(template string, params map[string]string) string {
	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if v, ok := params[seg[1:]]; ok {
			segments[i] = url.PathEscape(v)
		}
	}
	return strings.Join(segments, "/")
}
