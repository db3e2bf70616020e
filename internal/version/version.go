// Package version describes the tipctl build and the script language it understands.
package version

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"tipctl/internal/command"
)

// Set with -ldflags "-X tipctl/internal/version.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is what `tipctl version` reports.
type Info struct {
	Version   string   `json:"version" yaml:"version"`
	Commit    string   `json:"commit" yaml:"commit"`
	Date      string   `json:"date" yaml:"date"`
	GoVersion string   `json:"goVersion" yaml:"goVersion"`
	Platform  string   `json:"platform" yaml:"platform"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
}

func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Keywords:  Keywords(),
	}
}

// Keywords returns the script keywords, sorted.
func Keywords() []string {
	completions := command.Completions()
	keywords := make([]string, 0, len(completions))
	for keyword := range completions {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

// Short is the line shown by --version. Development builds carry the commit.
func Short() string {
	if Version == "dev" {
		return fmt.Sprintf("tipctl dev (%s)", Commit)
	}
	return "tipctl v" + strings.TrimPrefix(Version, "v")
}

func Details() string {
	info := GetInfo()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Short())
	fmt.Fprintf(&b, "  commit:   %s\n", info.Commit)
	fmt.Fprintf(&b, "  built:    %s\n", info.Date)
	fmt.Fprintf(&b, "  go:       %s %s\n", info.GoVersion, info.Platform)
	fmt.Fprintf(&b, "  keywords: %s", strings.Join(info.Keywords, " "))
	return b.String()
}
