package hostconfig

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// MinimumJHipsterVersion is the oldest host version the templates target.
const MinimumJHipsterVersion = "4.10.0"

// canonical converts a JHipster version string ("4.10.2") to the "v"-prefixed
// form golang.org/x/mod/semver expects.
func canonical(version string) (string, error) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(version), "v")
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return v, nil
}

// IsCompatible reports whether version is at least MinimumJHipsterVersion.
// Pre-releases of the minimum version are older than the minimum.
func IsCompatible(version string) (bool, error) {
	v, err := canonical(version)
	if err != nil {
		return false, err
	}
	return semver.Compare(v, "v"+MinimumJHipsterVersion) >= 0, nil
}

// CheckVersion returns a warning message when the host was generated by a
// JHipster older than MinimumJHipsterVersion or records no readable version,
// and "" otherwise.
func (c *Config) CheckVersion() string {
	ok, err := IsCompatible(c.JHipsterVersion)
	if err != nil {
		return fmt.Sprintf("Could not read the JHipster version of the project (%s)", c.JHipsterVersion)
	}
	if !ok {
		return fmt.Sprintf("Your generated project used an old JHipster version (%s)... you need at least (%s)",
			c.JHipsterVersion, MinimumJHipsterVersion)
	}
	return ""
}
