package version

// Version is set at build time, e.g.
// go build -ldflags "-X github.com/shishobooks/fb2catalog/pkg/version.Version=1.0.0".
var Version = "dev"
