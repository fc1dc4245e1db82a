// Package update checks GitHub releases for newer codeshield builds and
// replaces the running binary on request.
package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	// Slug is the GitHub owner/repo releases are published under.
	Slug          = "codeshield/codeshield"
	latestURL     = "https://api.github.com/repos/" + Slug + "/releases/latest"
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// Checker looks up the latest release, caching the answer for a day.
type Checker struct {
	URL    string
	Client *http.Client
	Dir    string // cache directory; empty means the user config dir
}

// NewChecker returns a Checker pointed at the public releases API.
func NewChecker() *Checker {
	return &Checker{URL: latestURL, Client: &http.Client{Timeout: 2 * time.Second}}
}

func configDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "codeshield")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "codeshield")
}

func (c *Checker) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return configDir()
}

func (c *Checker) loadCache() (cache, error) {
	var out cache
	dir := c.dir()
	if dir == "" {
		return out, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return out, err
	}
	_ = json.Unmarshal(b, &out)
	return out, nil
}

func (c *Checker) saveCache(v cache) {
	dir := c.dir()
	if dir == "" {
		return
	}
	_ = os.MkdirAll(dir, 0755)
	b, _ := json.MarshalIndent(v, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, cacheFileName), b, 0644)
}

func (c *Checker) latestOnline() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "codeshield-updater")
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases api: %s", resp.Status)
	}
	var obj struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", err
	}
	if obj.TagName != "" {
		return obj.TagName, nil
	}
	return obj.Name, nil
}

// Check returns the latest known version and whether it is newer than
// current. It is a no-op in CI or when noNetwork is set.
func (c *Checker) Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	cached, _ := c.loadCache()
	latest := cached.Latest
	if latest == "" || time.Since(cached.LastChecked) > cacheTTL {
		if v, err := c.latestOnline(); err == nil {
			latest = normalize(v)
			c.saveCache(cache{LastChecked: time.Now(), Latest: latest})
		}
	}
	if latest == "" || current == "" {
		return latest, false, nil
	}
	return latest, Newer(latest, current), nil
}

func normalize(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// Newer reports whether latest is a higher semantic version than current.
// Unparseable versions never compare as newer.
func Newer(latest, current string) bool {
	l, err := semver.ParseTolerant(latest)
	if err != nil {
		return false
	}
	c, err := semver.ParseTolerant(current)
	if err != nil {
		return false
	}
	return l.GT(c)
}

// SelfUpdate replaces the running binary with the latest release and
// returns the version installed. Development builds are treated as 0.0.0.
func SelfUpdate(current string) (string, error) {
	v, err := semver.ParseTolerant(current)
	if err != nil {
		v = semver.MustParse("0.0.0")
	}
	// selfupdate still speaks the pre-modules semver API
	rel, err := selfupdate.UpdateSelf(semver3.MustParse(v.String()), Slug)
	if err != nil {
		return "", fmt.Errorf("self-update: %w", err)
	}
	return rel.Version.String(), nil
}
