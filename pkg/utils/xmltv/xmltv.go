// Package xmltv writes minimal XMLTV documents for the channels a playlist
// references. Programme data is out of scope; players use the channel list
// to join playlist entries with external guide data.
package xmltv

import (
	"encoding/xml"
	"io"

	"github.com/yatagai/antenna/pkg/domain/model"
)

type document struct {
	XMLName       xml.Name  `xml:"tv"`
	GeneratorName string    `xml:"generator-info-name,attr"`
	Channels      []channel `xml:"channel"`
}

type channel struct {
	ID          string       `xml:"id,attr"`
	DisplayName string       `xml:"display-name"`
	Icon        *channelIcon `xml:"icon,omitempty"`
}

type channelIcon struct {
	Src string `xml:"src,attr"`
}

// Encode writes an XMLTV document with one <channel> per distinct tvg-id.
// Channels without a tvg-id are skipped.
func Encode(w io.Writer, channels []model.Channel, generator string) error {
	doc := document{GeneratorName: generator}

	seen := make(map[string]bool, len(channels))
	for i := range channels {
		ch := &channels[i]
		if ch.TvgID == "" || seen[ch.TvgID] {
			continue
		}
		seen[ch.TvgID] = true

		entry := channel{
			ID:          ch.TvgID,
			DisplayName: ch.Name(),
		}
		if ch.TvgLogo != "" {
			entry.Icon = &channelIcon{Src: ch.TvgLogo}
		}
		doc.Channels = append(doc.Channels, entry)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
