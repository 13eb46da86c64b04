package gallery

import (
	"fmt"
	"regexp"
	"strings"
)

const reservedNameChars = `<>:"/\|?*`

// ValidateName checks a gallery name that will also be used as a single
// folder name under the images root.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if trimmed == "." || trimmed == ".." {
		return fmt.Errorf("%w: %q is not a folder name", ErrInvalidName, name)
	}
	if i := strings.IndexAny(name, reservedNameChars); i >= 0 {
		return fmt.Errorf("%w: %q contains reserved character %q", ErrInvalidName, name, name[i])
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidName, name)
		}
	}
	return nil
}

// downloadLinkPattern accepts http(s)/ftp(s) URLs with a domain,
// localhost, IPv4 or bracketed IPv6 host, optional port and path.
var downloadLinkPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}|` +
	`\[?[A-F0-9]*:[A-F0-9:]+\]?)` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// ValidateDownloadLink accepts an empty link or a syntactically valid URL.
func ValidateDownloadLink(link string) error {
	if link == "" {
		return nil
	}
	if !downloadLinkPattern.MatchString(link) {
		return fmt.Errorf("%w: %q", ErrInvalidDownloadLink, link)
	}
	return nil
}
