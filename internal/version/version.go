package version

// Version is the current version of the argo-bars tool.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-bars/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// JobSchemaVersion is the version of the job file format this build reads.
const JobSchemaVersion = "1.0.0"

// GetVersion returns the current version of the tool.
func GetVersion() string {
	return Version
}
