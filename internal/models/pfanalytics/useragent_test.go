package pfanalytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffUserAgent(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		device  string
		os      string
		browser string
	}{
		{
			name:    "Chrome sur Windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			device:  DeviceDesktop,
			os:      "Windows",
			browser: "Chrome",
		},
		{
			name:    "Safari sur iPhone",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			device:  DeviceMobile,
			os:      "iOS",
			browser: "Safari",
		},
		{
			name:    "Safari sur iPad",
			ua:      "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			device:  DeviceTablet,
			os:      "iOS",
			browser: "Safari",
		},
		{
			name:    "Chrome sur Android",
			ua:      "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			device:  DeviceMobile,
			os:      "Android",
			browser: "Chrome",
		},
		{
			name:    "Edge sur Windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			device:  DeviceDesktop,
			os:      "Windows",
			browser: "Edge",
		},
		{
			name:    "Firefox sur Linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			device:  DeviceDesktop,
			os:      "Linux",
			browser: "Firefox",
		},
		{
			name:    "Safari sur Mac",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
			device:  DeviceDesktop,
			os:      "MacOS",
			browser: "Safari",
		},
		{
			name:    "User-Agent vide",
			ua:      "",
			device:  DeviceDesktop,
			os:      "Unknown",
			browser: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := SniffUserAgent(tt.ua)
			assert.Equal(t, tt.device, info.DeviceType)
			assert.Equal(t, tt.os, info.OS)
			assert.Equal(t, tt.browser, info.Browser)
		})
	}
}

func TestNormalizeDeviceType(t *testing.T) {
	assert.Equal(t, DeviceDesktop, NormalizeDeviceType("desktop"))
	assert.Equal(t, DeviceMobile, NormalizeDeviceType("mobile"))
	assert.Equal(t, DeviceTablet, NormalizeDeviceType("tablet"))

	// Les types inconnus sont repliés sur desktop
	assert.Equal(t, DeviceDesktop, NormalizeDeviceType("unknown"))
	assert.Equal(t, DeviceDesktop, NormalizeDeviceType(""))
	assert.Equal(t, DeviceDesktop, NormalizeDeviceType("smartwatch"))
}
