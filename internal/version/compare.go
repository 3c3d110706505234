package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// CheckJobCompatibility checks whether a job file written for jobVersion can be
// read by a tool that understands supportedVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.0.0 is compatible with 1.0.3)
//
// Examples:
//   - Supported 1.0.0, Job 1.0.0 -> OK (exact match)
//   - Supported 1.0.2, Job 1.0.0 -> OK (patch differs)
//   - Supported 1.1.0, Job 1.0.0 -> ERROR (minor differs)
//   - Supported 2.0.0, Job 1.0.0 -> ERROR (major differs)
func CheckJobCompatibility(supportedVersion, jobVersion string) error {
	supportedVersion = strings.TrimPrefix(supportedVersion, "v")
	jobVersion = strings.TrimPrefix(jobVersion, "v")

	if supportedVersion == "main" || jobVersion == "main" {
		return nil
	}

	supported, err := semver.NewVersion(supportedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid supported version '%s'", supportedVersion)
	}

	job, err := semver.NewVersion(jobVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid job version '%s'", jobVersion)
	}

	if supported.Major() != job.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "major version mismatch: tool reads %d.x.x jobs but job is %d.x.x",
			supported.Major(), job.Major())
	}

	if supported.Minor() != job.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "minor version mismatch: tool reads %d.%d.x jobs but job is %d.%d.x",
			supported.Major(), supported.Minor(),
			job.Major(), job.Minor())
	}

	return nil
}
