package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// Valores padrão (sobrescritos por ldflags ou por build info)
var (
	Version   = "0.0.0-dev"
	Commit    = ""
	BuildTime = ""
)

// ReleasesURL is the GitHub API endpoint of the latest release.
const ReleasesURL = "https://api.github.com/repos/diillson/ticket-ledger/releases/latest"

// Info is the build identity of the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Current returns the version info after ldflags and build info are applied.
func Current() Info {
	return Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
}

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return
	}
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	applyBuildSettings(settings)
}

// applyBuildSettings fills the unset fields from the vcs.* build settings.
// Values set through ldflags win.
func applyBuildSettings(settings map[string]string) {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}

	if rev := settings["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if t := settings["vcs.time"]; BuildTime == "" && t != "" {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	if tag := settings["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(settings["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

// String formata a versão com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func (i Info) String() string {
	ver := i.Version
	if ver == "" {
		ver = "0.0.0-dev"
	}
	switch {
	case i.Commit == "" && i.BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case i.BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, i.Commit)
	case i.Commit == "":
		return fmt.Sprintf("%s (commit: development, built at: %s)", ver, i.BuildTime)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, i.Commit, i.BuildTime)
	}
}

// FormatVersion is Current().String().
func FormatVersion() string {
	return Current().String()
}

// LatestRelease returns the tag of the latest release without its "v" prefix.
func LatestRelease(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// Newer reports whether latest is a higher dotted version than current.
// Pre-release and build suffixes are ignored.
func Newer(latest, current string) bool {
	l, c := parseVersion(latest), parseVersion(current)
	for i := 0; i < len(l) || i < len(c); i++ {
		var a, b int
		if i < len(l) {
			a = l[i]
		}
		if i < len(c) {
			b = c[i]
		}
		if a != b {
			return a > b
		}
	}
	return false
}

func parseVersion(v string) []int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+ "); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	return parts
}

// CheckLatestVersion avisa quando há uma versão mais nova. Falhas são ignoradas.
func CheckLatestVersion(ctx context.Context, currentVersion string, console types.ConsoleInterface) {
	// Versões dev não são verificadas
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	client := &http.Client{Timeout: 3 * time.Second}
	latest, err := LatestRelease(ctx, client, ReleasesURL)
	if err != nil {
		return
	}
	if Newer(latest, currentVersion) {
		console.LogWarning("A new version of ticket-ledger is available: %s", latest)
		console.LogInfo("Please update using: go install github.com/diillson/ticket-ledger/cmd/ticket-ledger@latest")
	}
}
