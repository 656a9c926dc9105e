package enrich

import "github.com/mileusna/useragent"

// DeviceClass classifies the requesting device.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceOther   DeviceClass = "other"
)

// UnknownField is the placeholder for browser and OS names that could not be parsed.
const UnknownField = "Unknown"

// AgentInfo is the parsed result of a user-agent string.
type AgentInfo struct {
	Browser string
	OS      string
	Device  DeviceClass
}

// ParseUserAgent maps a raw user-agent string to browser, OS, and device
// class. Missing or unparseable input yields Unknown fields and the "other"
// device class; it never fails.
func ParseUserAgent(raw string) AgentInfo {
	info := AgentInfo{
		Browser: UnknownField,
		OS:      UnknownField,
		Device:  DeviceOther,
	}

	if raw == "" {
		return info
	}

	ua := useragent.Parse(raw)

	if ua.Name != "" {
		info.Browser = ua.Name
	}

	if ua.OS != "" {
		info.OS = ua.OS
	}

	switch {
	case ua.Tablet:
		info.Device = DeviceTablet
	case ua.Mobile:
		info.Device = DeviceMobile
	case ua.Desktop:
		info.Device = DeviceDesktop
	}

	return info
}
