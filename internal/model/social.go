package model

import "strings"

// PlatformStyle describes the icon and brand color used when rendering a
// social link. Platforms are matched case-insensitively; unknown platforms
// fall back to a generic link icon.
type PlatformStyle struct {
	Icon  string
	Color string
}

// platformStyles is the fixed icon/color table for known platforms.
var platformStyles = map[string]PlatformStyle{
	"facebook":  {Icon: "facebook", Color: "#1877F2"},
	"instagram": {Icon: "instagram", Color: "#E4405F"},
	"twitter":   {Icon: "twitter", Color: "#1DA1F2"},
	"x":         {Icon: "twitter", Color: "#000000"},
	"youtube":   {Icon: "youtube", Color: "#FF0000"},
	"tiktok":    {Icon: "tiktok", Color: "#000000"},
	"whatsapp":  {Icon: "whatsapp", Color: "#25D366"},
	"telegram":  {Icon: "telegram", Color: "#26A5E4"},
}

// StyleForPlatform returns the icon/color for a platform name, matched
// case-insensitively, with a generic fallback for unknown platforms.
func StyleForPlatform(platform string) PlatformStyle {
	if s, ok := platformStyles[strings.ToLower(strings.TrimSpace(platform))]; ok {
		return s
	}
	return PlatformStyle{Icon: "link", Color: "#6B7280"}
}
