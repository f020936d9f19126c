// internal/version/version.go
package version

// Version is the release tag, overridable at link time with
// -ldflags "-X ifp/internal/version.Version=...".
var Version = "0.1.0"
