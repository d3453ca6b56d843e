package migrate

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Compare orders schema version strings. The empty string (unversioned)
// sorts before every other version. Versions are compared numerically per
// dotted component, so "0.2" < "0.10". Strings that are not numeric
// versions fall back to plain string comparison.
func Compare(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	va, vb := canonical(a), canonical(b)
	if semver.IsValid(va) && semver.IsValid(vb) {
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
