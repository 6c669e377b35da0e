package panel

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode"
)

// zoneinfoDirs are searched in order for the system timezone database.
var zoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// fallbackZones is used when no zoneinfo directory is readable.
var fallbackZones = []string{
	"UTC",
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	"America/Chicago", "America/Denver", "America/Los_Angeles", "America/Mexico_City",
	"America/New_York", "America/Sao_Paulo", "America/Toronto",
	"Asia/Bangkok", "Asia/Dubai", "Asia/Hong_Kong", "Asia/Jakarta", "Asia/Kolkata",
	"Asia/Seoul", "Asia/Shanghai", "Asia/Singapore", "Asia/Tokyo",
	"Australia/Melbourne", "Australia/Sydney",
	"Europe/Amsterdam", "Europe/Berlin", "Europe/Istanbul", "Europe/London",
	"Europe/Madrid", "Europe/Moscow", "Europe/Paris", "Europe/Rome", "Europe/Warsaw",
	"Pacific/Auckland", "Pacific/Honolulu",
}

var timezones = sync.OnceValue(func() []string {
	for _, dir := range zoneinfoDirs {
		if zones := scanZoneinfo(os.DirFS(dir)); len(zones) > 0 {
			return zones
		}
	}
	zones := slices.Clone(fallbackZones)
	slices.Sort(zones)
	return zones
})

// Timezones returns the sorted IANA zone names offered in the timezone
// dropdown, read once from the system zoneinfo database.
func Timezones() []string { return timezones() }

// scanZoneinfo lists zone files under fsys. Auxiliary trees (posix, right)
// and metadata files (zone.tab, tzdata.zi, ...) are skipped.
func scanZoneinfo(fsys fs.FS) []string {
	var zones []string
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != "." && (name == "posix" || name == "right" || name == "SystemV") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if strings.Contains(name, ".") || !unicode.IsUpper([]rune(name)[0]) {
			return nil
		}
		zones = append(zones, filepath.ToSlash(path))
		return nil
	})
	if !slices.Contains(zones, "UTC") && len(zones) > 0 {
		zones = append(zones, "UTC")
	}
	slices.Sort(zones)
	return slices.Compact(zones)
}
