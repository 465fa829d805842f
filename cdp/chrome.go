package cdp

import (
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strconv"
)

const minChromeVersion = "90.0"

// ErrChromeNotFound is returned when no Chrome or Chromium binary can be
// located.
var ErrChromeNotFound = errors.New("cdp: chrome not found")

var chromeNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// lookupChrome determines the browser binary by checking, in order:
// 1. WithChromePath option
// 2. SCOUT_CHROME environment variable
// 3. $PATH lookup of the usual binary names
//
// explicit reports whether the path was configured rather than discovered.
func lookupChrome(configured string) (path string, explicit bool, err error) {
	if configured != "" {
		return configured, true, nil
	}
	if envPath := os.Getenv("SCOUT_CHROME"); envPath != "" {
		return envPath, true, nil
	}
	for _, name := range chromeNames {
		if found, err := exec.LookPath(name); err == nil {
			return found, false, nil
		}
	}
	return "", false, ErrChromeNotFound
}

// versionAtLeast returns true if version >= minVersion.
// Handles product strings like "HeadlessChrome/131.0.6778.85".
var versionRe = regexp.MustCompile(`(\d+)\.(\d+)`)

func versionAtLeast(version, minVersion string) bool {
	parseMajorMinor := func(v string) (int, int, bool) {
		m := versionRe.FindStringSubmatch(v)
		if m == nil {
			return 0, 0, false
		}
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		return major, minor, true
	}

	vMajor, vMinor, ok1 := parseMajorMinor(version)
	mMajor, mMinor, ok2 := parseMajorMinor(minVersion)
	if !ok1 || !ok2 {
		return false
	}

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	return vMinor >= mMinor
}
