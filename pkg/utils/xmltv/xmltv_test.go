package xmltv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/utils/xmltv"
)

func TestEncode(t *testing.T) {
	channels := []model.Channel{
		{TvgID: "cctv1", TvgName: "CCTV-1", TvgLogo: "http://logo/1.png"},
		{TvgID: "cctv1", TvgName: "CCTV-1 dup"},
		{TvgID: "", TvgName: "no id"},
		{TvgID: "hn", Title: "湖南卫视"},
	}

	var buf bytes.Buffer
	gt.NoError(t, xmltv.Encode(&buf, channels, "antenna"))
	out := buf.String()

	gt.String(t, out).Contains(`<?xml`)
	gt.String(t, out).Contains(`generator-info-name="antenna"`)

	// One channel per distinct tvg-id; empty ids are skipped.
	gt.Number(t, strings.Count(out, `<channel id="cctv1">`)).Equal(1)
	gt.String(t, out).Contains(`<channel id="hn">`)
	gt.False(t, strings.Contains(out, "no id"))

	gt.String(t, out).Contains(`<icon src="http://logo/1.png">`)
	gt.String(t, out).Contains(`<display-name>湖南卫视</display-name>`)
}
