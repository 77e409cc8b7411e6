package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

var bareID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractID returns the video id from a watch URL, a youtu.be short link, or
// a bare 11-character id. ok is false when nothing matches.
func ExtractID(input string) (id string, ok bool) {
	input = strings.TrimSpace(input)
	if bareID.MatchString(input) {
		return input, true
	}
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case strings.HasSuffix(host, "youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			return v, true
		}
	case host == "youtu.be":
		if v := strings.Trim(u.Path, "/"); v != "" {
			return v, true
		}
	}
	return "", false
}
