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

	"github.com/pterm/pterm"
)

// Valores padrão, sobrescritos por ldflags ou pelo build info.
var (
	Version   = "0.0.0-dev"
	Commit    = ""
	BuildTime = ""
)

const (
	releaseURL = "https://api.github.com/repos/diillson/cur2-parquet-sync/releases/latest"
	modulePath = "github.com/diillson/cur2-parquet-sync/cmd/cur2-sync"
)

// populateFromBuildInfo preenche Commit/BuildTime a partir do vcs embutido pelo Go
// quando o binário não recebeu ldflags.
func populateFromBuildInfo() {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; len(rev) >= 7 {
			Commit = rev[:7]
		}
	}
	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	// go install module@vX.Y.Z grava a versão do módulo principal.
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		Version = strings.TrimPrefix(v, "v")
		if strings.EqualFold(settings["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

func init() {
	populateFromBuildInfo()
}

// CheckLatestVersion avisa quando há uma release mais nova publicada.
func CheckLatestVersion(currentVersion string) {
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	latest, err := latestRelease(ctx, http.DefaultClient, releaseURL)
	if err != nil || !newerThan(latest, currentVersion) {
		return
	}
	pterm.Warning.Println(fmt.Sprintf("A new version of CUR2 Parquet Sync is available: %s", latest))
	pterm.Info.Println(fmt.Sprintf("Please update using: go install %s@latest", modulePath))
}

func latestRelease(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// newerThan compara versões X.Y.Z numericamente; sufixos após "-" são ignorados.
func newerThan(latest, current string) bool {
	l, c := versionParts(latest), versionParts(current)
	for i := 0; i < 3; i++ {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func versionParts(v string) [3]int {
	var out [3]int
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	for i, p := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out[i] = n
	}
	return out
}

// FormatVersion retorna a versão com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime != "":
		commit := Commit
		if commit == "" {
			commit = "development"
		}
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
	default:
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}
}
