package executor

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z]+://`)

// NormalizeURL prefixes https:// when the target has no scheme and converts
// an internationalized host name to its ASCII form. Anything that does not
// parse is returned with only the scheme fix applied.
func NormalizeURL(target string) string {
	target = strings.TrimSpace(target)
	if !schemePattern.MatchString(target) {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return target
	}

	host := u.Hostname()
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == host {
		return target
	}

	if port := u.Port(); port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}
	return u.String()
}
