package pfanalytics

import "strings"

const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// DeviceInfo regroupe ce qu'on déduit du User-Agent
type DeviceInfo struct {
	DeviceType string
	OS         string
	Browser    string
}

// SniffUserAgent déduit le type d'appareil, l'OS et le navigateur
// par simple recherche de sous-chaînes dans le User-Agent
func SniffUserAgent(ua string) DeviceInfo {
	info := DeviceInfo{
		DeviceType: DeviceDesktop,
		OS:         "Unknown",
		Browser:    "Unknown",
	}

	lower := strings.ToLower(ua)

	// Les tablettes d'abord : un iPad se présente aussi comme "Mobile"
	switch {
	case strings.Contains(lower, "tablet") || strings.Contains(lower, "ipad"):
		info.DeviceType = DeviceTablet
	case strings.Contains(lower, "mobile"):
		info.DeviceType = DeviceMobile
	}

	switch {
	case strings.Contains(ua, "Windows"):
		info.OS = "Windows"
	case strings.Contains(ua, "Android"):
		info.OS = "Android"
	case strings.Contains(ua, "like Mac"):
		info.OS = "iOS"
	case strings.Contains(ua, "Mac"):
		info.OS = "MacOS"
	case strings.Contains(ua, "Linux"):
		info.OS = "Linux"
	}

	switch {
	case strings.Contains(ua, "Edg"):
		info.Browser = "Edge"
	case strings.Contains(ua, "Chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "Firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "Safari"):
		info.Browser = "Safari"
	}

	return info
}

// NormalizeDeviceType replie les types inconnus sur desktop
func NormalizeDeviceType(t string) string {
	switch t {
	case DeviceMobile, DeviceTablet, DeviceDesktop:
		return t
	default:
		return DeviceDesktop
	}
}
