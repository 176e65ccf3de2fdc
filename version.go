package tapsocrata

// Version is the current version of tap-socrata.
// Overridden at build time via -ldflags "-X github.com/aretw0/tap-socrata.Version=...".
var Version = "0.1.0"
