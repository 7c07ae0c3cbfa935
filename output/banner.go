package output

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner display.
type BannerOptions struct {
	ShowBanner  bool // Show ASCII art logo
	ShowVersion bool // Show version information
	ShowLicense bool // Show license information
}

// DefaultBannerOptions returns default banner configuration.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{
		ShowBanner:  true,
		ShowVersion: true,
		ShowLicense: true,
	}
}

// PrintBanner displays the jsflow logo and information.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}

	if !opts.ShowBanner {
		if opts.ShowVersion {
			fmt.Fprintf(w, "jsflow v%s\n", version)
		}
		if opts.ShowLicense {
			fmt.Fprintf(w, "MIT License | https://github.com/tainthound/jsflow\n")
		}
		fmt.Fprintln(w)
		return
	}

	asciiArt := GetASCIILogo()
	fmt.Fprintln(w, asciiArt)

	if opts.ShowVersion {
		fmt.Fprintf(w, "jsflow v%s\n", version)
	}

	if opts.ShowLicense {
		fmt.Fprintln(w, "MIT License | https://github.com/tainthound/jsflow")
	}

	fmt.Fprintln(w)
}

// GetASCIILogo generates the ASCII art logo for "jsflow".
func GetASCIILogo() string {
	fig := figure.NewFigure("jsflow", "standard", true)
	return fig.String()
}

// GetCompactBanner returns a single-line banner for non-TTY output.
func GetCompactBanner(version string) string {
	return fmt.Sprintf("jsflow v%s | JS/TS taint analysis | https://github.com/tainthound/jsflow", version)
}

// ShouldShowBanner determines if banner should be displayed.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	if noBannerFlag {
		return false
	}
	return isTTY
}
