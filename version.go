// Package clausekit is a set of editor extensions for contract and template
// documents: a font-size attribute, a slash-command suggestion menu, a format
// painter and resizable images, hosted by the editor package.
package clausekit

import (
	_ "embed"
	"strings"

	"golang.org/x/mod/semver"
)

//go:embed VERSION
var embeddedVersion string

// Version returns the library version without the leading v.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns the git tag for Version.
func VersionTag() string {
	return "v" + Version()
}

// IsSemver reports whether v is a full SemVer 2.0.0 version without a v prefix.
func IsSemver(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "v") {
		return false
	}
	tag := "v" + v
	// semver.IsValid accepts shorthands like v1.2.
	return semver.IsValid(tag) && semver.Canonical(tag) == strings.SplitN(tag, "+", 2)[0]
}

// CompareVersion orders two versions the SemVer way. Invalid versions sort
// before valid ones.
func CompareVersion(a, b string) int {
	return semver.Compare("v"+strings.TrimSpace(a), "v"+strings.TrimSpace(b))
}
