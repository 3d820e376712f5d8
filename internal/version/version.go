// Package version parses and orders RouterOS and RouterBOOT version numbers.
//
// Accepted numbers have the shape major.minor[.patch] with an optional
// pre-release suffix "a<N>" or "b<N>". The release-candidate marker "rc"
// used by MikroTik is rewritten to "b" before parsing, so "6.46rc12" orders
// below "6.46".
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
)

const (
	releaseCandidateMarker = "rc"
	preReleaseMarker       = "b"
)

var pattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:([ab])(\d+))?$`)

// Version is a parsed dotted-triple version number.
type Version struct {
	Major int
	Minor int
	Patch int
	// Pre is "a" or "b" for pre-release builds and empty otherwise.
	Pre    string
	PreNum int
}

// PreRelease reports whether v carries a pre-release suffix.
func (v Version) PreRelease() bool { return v.Pre != "" }

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease() {
		s += v.Pre + strconv.Itoa(v.PreNum)
	}
	return s
}

// Normalize rewrites every release-candidate marker to the pre-release marker.
func Normalize(s string) string {
	return strings.ReplaceAll(s, releaseCandidateMarker, preReleaseMarker)
}

// Parse normalizes s and parses it. It fails with domain.ErrUnparsableVersion
// for anything that is not major.minor[.patch][{a|b}N].
func Parse(s string) (Version, error) {
	m := pattern.FindStringSubmatch(Normalize(s))
	if m == nil {
		return Version{}, unparsable(s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, unparsable(s)
	}
	if v.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Version{}, unparsable(s)
	}
	if m[3] != "" {
		if v.Patch, err = strconv.Atoi(m[3]); err != nil {
			return Version{}, unparsable(s)
		}
	}
	if m[4] != "" {
		v.Pre = m[4]
		if v.PreNum, err = strconv.Atoi(m[5]); err != nil {
			return Version{}, unparsable(s)
		}
	}
	return v, nil
}

func unparsable(s string) error {
	return domain.E("parse version", fmt.Sprintf("don't know how to handle version number %q", s), domain.ErrUnparsableVersion)
}

// Compare returns -1, 0 or +1 as a is older than, equal to or newer than b.
// A pre-release sorts below the release with the same numeric triple.
func Compare(a, b Version) int {
	if c := cmpInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmpInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmpInt(a.Patch, b.Patch); c != 0 {
		return c
	}

	switch {
	case !a.PreRelease() && !b.PreRelease():
		return 0
	case !a.PreRelease():
		return 1
	case !b.PreRelease():
		return -1
	}
	if c := strings.Compare(a.Pre, b.Pre); c != 0 {
		return c
	}
	return cmpInt(a.PreNum, b.PreNum)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareStrings parses both operands and compares them.
func CompareStrings(current, latest string) (int, error) {
	cur, err := Parse(current)
	if err != nil {
		return 0, fmt.Errorf("current version: %w", err)
	}
	lat, err := Parse(latest)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	return Compare(cur, lat), nil
}

// IsOutOfDate reports whether latest is newer than current.
func IsOutOfDate(current, latest string) (bool, error) {
	c, err := CompareStrings(current, latest)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}
