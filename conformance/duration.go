package conformance

import (
	"errors"
	"regexp"
)

var (
	errEmptyDuration = errors.New("empty duration")
	errISODuration   = errors.New("not an ISO-8601 duration")

	isoDurationRe = regexp.MustCompile(`^P(?:\d+Y)?(?:\d+M)?(?:\d+W)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:[.,]\d+)?S)?)?$`)
)

// NonEmpty accepts any non-empty string. It is the default duration check.
func NonEmpty(s string) error {
	if s == "" {
		return errEmptyDuration
	}
	return nil
}

// ISO8601Duration accepts ISO-8601 durations such as "PT1H30M" or "P3D".
func ISO8601Duration(s string) error {
	if !isoDurationRe.MatchString(s) {
		return errISODuration
	}
	// "P" and "PT" match the grammar above but carry no component.
	if s == "P" || s[len(s)-1] == 'T' {
		return errISODuration
	}
	return nil
}
