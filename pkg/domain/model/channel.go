package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// StreamType classifies a stream URL by its container protocol.
type StreamType string

const (
	StreamHLS  StreamType = "HLS"
	StreamFLV  StreamType = "FLV"
	StreamDASH StreamType = "DASH"
	StreamTS   StreamType = "TS"
)

// Channel represents one live channel entry parsed from a playlist source.
type Channel struct {
	TvgID      string     `json:"tvg_id"`
	TvgName    string     `json:"tvg_name"`
	TvgLogo    string     `json:"tvg_logo"`
	Group      string     `json:"group"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	StreamType StreamType `json:"stream_type,omitempty"`
}

// Hash returns the dedup key of the channel: MD5 of the stream URL.
func (c *Channel) Hash() string {
	sum := md5.Sum([]byte(c.URL))
	return hex.EncodeToString(sum[:])
}

// DetectStreamType classifies a stream URL from its path suffix.
func DetectStreamType(url string) StreamType {
	switch {
	case strings.Contains(url, ".m3u8"):
		return StreamHLS
	case strings.Contains(url, ".flv"):
		return StreamFLV
	case strings.Contains(url, ".mpd"):
		return StreamDASH
	default:
		return StreamTS
	}
}

// Name returns the display name of the channel, preferring the tvg-name
// attribute over the EXTINF title.
func (c *Channel) Name() string {
	if c.TvgName != "" {
		return c.TvgName
	}
	return strings.TrimSpace(c.Title)
}
