// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X crush-calc/internal/version.Version=v1.2.0 -X crush-calc/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
)
