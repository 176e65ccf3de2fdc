package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for tap-socrata.
// Writes to stderr: stdout belongs to the Singer message stream.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Teal-to-blue gradient
	s1 := termenv.String("  _                                         _        ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String(" | |_ __ _ _ __ ___  ___   ___ _ __ __ _ __| |_ __ _ ").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" | __/ _` | '_ \\___|/ __| / _ \\ '__/ _` |_ /| __/ _` |").Foreground(p.Color("#38bdf8"))
	s4 := termenv.String(" | || (_| | |_) |   \\__ \\| (_) | | | (_| | || (_| |").Foreground(p.Color("#60a5fa"))
	s5 := termenv.String("  \\__\\__,_| .__/    |___/ \\___/|_|  \\__,_|\\__\\__,_|").Foreground(p.Color("#818cf8"))
	s6 := termenv.String("          |_|                                        ").Foreground(p.Color("#a78bfa"))

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, s1)
	fmt.Fprintln(os.Stderr, s2)
	fmt.Fprintln(os.Stderr, s3)
	fmt.Fprintln(os.Stderr, s4)
	fmt.Fprintln(os.Stderr, s5)
	fmt.Fprintln(os.Stderr, s6)
	if version != "" {
		fmt.Fprintf(os.Stderr, "  tap-socrata %s\n", version)
	}
	fmt.Fprintln(os.Stderr)
}
