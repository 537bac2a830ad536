package media

import "strings"

// DetectPlatform maps a video URL to a short platform label used in
// transcript file names and session records.
func DetectPlatform(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return "YouTube"
	case strings.Contains(lower, "instagram.com"):
		return "Instagram"
	case strings.Contains(lower, "vk.com"), strings.Contains(lower, "vkvideo"):
		return "VK"
	case strings.Contains(lower, "rutube.ru"):
		return "Rutube"
	case strings.Contains(lower, "tiktok.com"):
		return "TikTok"
	default:
		return "Video"
	}
}

// IsURL reports whether the source looks like a remote URL rather than a
// local file path.
func IsURL(source string) bool {
	return strings.Contains(source, "://")
}

// IsSupportedURL reports whether the URL scheme is one yt-dlp can handle.
func IsSupportedURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
