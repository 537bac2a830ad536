package media

import "testing"

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "YouTube"},
		{"https://youtu.be/dQw4w9WgXcQ", "YouTube"},
		{"https://www.instagram.com/reel/xyz/", "Instagram"},
		{"https://vk.com/video-123_456", "VK"},
		{"https://vkvideo.ru/video-123_456", "VK"},
		{"https://rutube.ru/video/abcdef/", "Rutube"},
		{"https://www.tiktok.com/@user/video/123", "TikTok"},
		{"https://example.com/talk.mp4", "Video"},
		{"HTTPS://WWW.YOUTUBE.COM/watch?v=abc", "YouTube"},
	}
	for _, tc := range tests {
		if got := DetectPlatform(tc.url); got != tc.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://youtube.com/watch?v=a", true},
		{"ftp://example.com/f", true},
		{"/home/user/video.mp4", false},
		{"~/Downloads/talk.mov", false},
		{"C:\\videos\\talk.mp4", false},
	}
	for _, tc := range tests {
		if got := IsURL(tc.source); got != tc.want {
			t.Errorf("IsURL(%q) = %v, want %v", tc.source, got, tc.want)
		}
	}
}

func TestIsSupportedURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://youtube.com/watch?v=a", true},
		{"http://example.com/v.mp4", true},
		{"ftp://example.com/v.mp4", false},
		{"rtmp://stream.example.com/live", false},
	}
	for _, tc := range tests {
		if got := IsSupportedURL(tc.source); got != tc.want {
			t.Errorf("IsSupportedURL(%q) = %v, want %v", tc.source, got, tc.want)
		}
	}
}
