package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// CheckCompatibility checks whether a stored state snapshot written under
// schema version `stored` can be loaded by code whose schema version is
// `current`. Returns nil if compatible, an ErrCodeSchemaVersionMismatch
// error with details if not.
//
// Compatibility rules:
//   - Major versions must match exactly; a snapshot written under a
//     different major layout is refused.
//   - Minor and patch versions can differ: additive fields decode to their
//     zero values and unknown fields are ignored by the JSON decoder.
func CheckCompatibility(current, stored string) error {
	currentVersion, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSchemaVersionMismatch, err,
			"invalid current schema version %q", current)
	}

	storedVersion, err := semver.NewVersion(strings.TrimPrefix(stored, "v"))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSchemaVersionMismatch, err,
			"invalid stored schema version %q", stored)
	}

	if currentVersion.Major() != storedVersion.Major() {
		return errors.Newf(errors.ErrCodeSchemaVersionMismatch,
			"schema major version mismatch: running %d.x.x but state was saved as %d.x.x",
			currentVersion.Major(), storedVersion.Major())
	}

	return nil
}
