// internal/requestinfo/ua.go
//
// User-Agent parsing helpers.
//
// This file isolates the third-party `github.com/avct/uasurfer` API so the
// rest of the codebase never sees its enums or structs.
package requestinfo

import (
	"fmt"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// UA carries the user-agent attributes written to the access log.
//
// Example (Chrome on macOS):
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "MacOSX"
//	Device    "Desktop"
//	IsBot     false
type UA struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string // Desktop, Mobile, Tablet, or Other
	Platform  string
	IsBot     bool
	Lang      string // primary Accept-Language tag
}

// parseUA converts raw headers into a UA.
func parseUA(raw, acceptLang string) UA {
	if raw == "" {
		return UA{Device: "Other", Lang: primaryLang(acceptLang)}
	}
	u := surfer.Parse(raw)

	info := UA{
		Browser:   strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:   versionString(u.Browser.Version),
		OS:        strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion: versionString(u.OS.Version),
		Platform:  strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:     u.IsBot(),
		Lang:      primaryLang(acceptLang),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// versionString renders a version dotted, trimming trailing zeros:
// 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d", v.Major)
}

// primaryLang extracts the first language tag before any ";q=" weight.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
