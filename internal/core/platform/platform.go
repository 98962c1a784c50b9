// Package platform identifies which social network a URL belongs to.
package platform

import "strings"

// Platform is the closed set of platform tags understood by the service.
type Platform string

const (
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Facebook  Platform = "facebook"
	Pinterest Platform = "pinterest"
	Generic   Platform = "generic"
)

// detectionRules is checked in order; the first matching substring wins.
var detectionRules = []struct {
	substr   string
	platform Platform
}{
	{"instagram.com", Instagram},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"tiktok.com", TikTok},
	{"facebook.com", Facebook},
	{"pinterest.com", Pinterest},
}

// Detect maps a URL to a platform tag by case-sensitive substring matching.
// It never fails; unrecognized URLs map to Generic.
func Detect(url string) Platform {
	for _, rule := range detectionRules {
		if strings.Contains(url, rule.substr) {
			return rule.platform
		}
	}
	return Generic
}

// All returns every platform tag, Generic last.
func All() []Platform {
	return []Platform{Instagram, Twitter, YouTube, TikTok, Facebook, Pinterest, Generic}
}

// Parse converts a client-supplied tag into a Platform.
// Only exact enum names are accepted.
func Parse(s string) (Platform, bool) {
	p := Platform(s)
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// Valid reports whether p is one of the known tags.
func (p Platform) Valid() bool {
	switch p {
	case Instagram, Twitter, YouTube, TikTok, Facebook, Pinterest, Generic:
		return true
	default:
		return false
	}
}

func (p Platform) String() string {
	return string(p)
}
