// Package version carries build metadata.
package version

const unknown = "unknown"

var (
	// AppVersion is overridden at build time:
	// go build -ldflags="-X github.com/claimdex/claimdex/pkg/version.AppVersion=v1.2.3"
	AppVersion = "dev"

	// GitCommit is overridden at build time.
	GitCommit = unknown

	// BuildTime is overridden at build time (RFC 3339).
	BuildTime = unknown
)

// Info contains version metadata for the service.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Current returns the current build's metadata.
func Current(serviceName string) Info {
	return Info{
		Service:   serviceName,
		Version:   AppVersion,
		Commit:    GitCommit,
		BuildTime: BuildTime,
	}
}
