// Package m3u parses and encodes M3U playlists with the tvg attribute
// extensions used by IPTV sources.
package m3u

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/yatagai/antenna/pkg/domain/model"
)

var extinfPattern = regexp.MustCompile(
	`#EXTINF:-?[0-9]*\s*(?:tvg-id="([^"]*)")?\s*(?:tvg-name="([^"]*)")?\s*(?:tvg-logo="([^"]*)")?\s*group-title="([^"]*)",(.*)`,
)

// Parse extracts channels from M3U content. An #EXTINF line carrying a
// group-title attribute pairs with the next non-comment line as the stream
// URL; entries without a group-title are skipped.
func Parse(content string) []model.Channel {
	var channels []model.Channel
	var current *model.Channel

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "#EXTINF"):
			m := extinfPattern.FindStringSubmatch(line)
			if m == nil {
				current = nil
				continue
			}
			current = &model.Channel{
				TvgID:   m[1],
				TvgName: m[2],
				TvgLogo: m[3],
				Group:   m[4],
				Title:   strings.TrimSpace(m[5]),
			}

		case line == "" || strings.HasPrefix(line, "#"):
			// Other directives and blank lines do not reset the pending entry.

		default:
			if current != nil {
				current.URL = line
				channels = append(channels, *current)
				current = nil
			}
		}
	}

	return channels
}

// ParseTXT extracts channels from plain "name,url" listings.
func ParseTXT(content string) []model.Channel {
	var channels []model.Channel

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, url, ok := strings.Cut(line, ",")
		if !ok || !strings.HasPrefix(url, "http") {
			continue
		}

		channels = append(channels, model.Channel{
			TvgName: strings.TrimSpace(name),
			Title:   strings.TrimSpace(name),
			URL:     strings.TrimSpace(url),
		})
	}

	return channels
}

// Encode writes channels as an extended M3U playlist, sorted and grouped by
// group-title with #EXTGRP markers. epgURL is emitted as the x-tvg-url
// header attribute when non-empty.
func Encode(w io.Writer, channels []model.Channel, epgURL string) error {
	header := "#EXTM3U"
	if epgURL != "" {
		header = fmt.Sprintf("#EXTM3U x-tvg-url=%q", epgURL)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	sorted := make([]model.Channel, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Group < sorted[j].Group
	})

	var currentGroup string
	for i := range sorted {
		ch := &sorted[i]
		if ch.Group != currentGroup {
			if _, err := fmt.Fprintf(w, "\n#EXTGRP:%s\n", ch.Group); err != nil {
				return err
			}
			currentGroup = ch.Group
		}

		if _, err := fmt.Fprintf(w, "#EXTINF:-1 tvg-id=%q tvg-name=%q tvg-logo=%q group-title=%q,%s\n%s\n",
			ch.TvgID, ch.TvgName, ch.TvgLogo, ch.Group, ch.Title, ch.URL); err != nil {
			return err
		}
	}

	return nil
}

// EncodeTXT writes channels as "name,url" lines.
func EncodeTXT(w io.Writer, channels []model.Channel) error {
	for i := range channels {
		if _, err := fmt.Fprintf(w, "%s,%s\n", channels[i].Name(), channels[i].URL); err != nil {
			return err
		}
	}
	return nil
}
