package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/infra/fetch"
	"github.com/yatagai/antenna/pkg/usecase"
)

// stubFinder returns fixed URLs and records the token it was built with.
type stubFinder struct {
	urls  []string
	err   error
	token string
}

func (s *stubFinder) FindPlaylistURLs(ctx context.Context, keyword string, limit int) ([]string, error) {
	return s.urls, s.err
}

const testPlaylist = `#EXTM3U
#EXTINF:-1 tvg-id="cctv1" tvg-name="CCTV-1" tvg-logo="http://logo/cctv1.png" group-title="央视",CCTV-1 综合
%s/stream/cctv1.m3u8
#EXTINF:-1 tvg-id="cctv1" tvg-name="CCTV-1" tvg-logo="" group-title="央视",CCTV-1 重复
%s/stream/cctv1.m3u8
#EXTINF:-1 tvg-id="test1" tvg-name="测试频道" tvg-logo="" group-title="央视",测试频道
%s/stream/test.m3u8
#EXTINF:-1 tvg-id="shop1" tvg-name="购物" tvg-logo="" group-title="购物",购物频道
%s/stream/shop.m3u8
#EXTINF:-1 tvg-id="dead1" tvg-name="挂了" tvg-logo="" group-title="卫视",无响应
%s/stream/dead.m3u8
`

func newCollectorFixture(t *testing.T) (interfaces.Collector, *stubFinder, string) {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/list.m3u", func(w http.ResponseWriter, r *http.Request) {
		u := server.URL
		fmt.Fprintf(w, testPlaylist, u, u, u, u, u)
	})
	mux.HandleFunc("/stream/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stream/dead.m3u8" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		fmt.Fprint(w, "#EXTM3U\n")
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	workdir := t.TempDir()
	finder := &stubFinder{}

	cfg := &model.SourceConfig{
		CustomURLs:        []string{server.URL + "/list.m3u"},
		GitHubKeywords:    []string{"IPTV"},
		ReposPerKeyword:   3,
		AllowedCategories: []string{"央视", "卫视"},
		BlockKeywords:     []string{"测试"},
		ValidateStreams:   true,
	}

	collector := gt.R1(usecase.NewCollector(
		func(token string) interfaces.SourceFinder {
			finder.token = token
			return finder
		},
		fetch.NewClient(),
		workdir,
		cfg,
		usecase.WithWorkers(2, 2),
	)).NoError(t)

	return collector, finder, workdir
}

func TestCollector_Collect(t *testing.T) {
	ctx := context.Background()
	collector, finder, workdir := newCollectorFixture(t)

	report := gt.R1(collector.Collect(ctx, "gh-token")).NoError(t)

	// Token reaches the finder factory.
	gt.Value(t, finder.token).Equal("gh-token")

	// 5 entries parsed; dedup drops the repeated URL, the block list drops
	// 测试频道, the allow list drops 购物, the probe drops the dead stream.
	gt.Number(t, report.ParsedCount).Equal(5)
	gt.Number(t, report.KeptCount).Equal(1)
	gt.Value(t, report.GroupCounts["央视"]).Equal(1)

	// All output files are generated.
	for _, name := range []string{"live.m3u", "live.txt", "live.json", "epg.xml", "report.json", "report.html"} {
		_, err := os.Stat(filepath.Join(workdir, name))
		gt.NoError(t, err)
	}

	// live.m3u carries the group header and the tvg attributes.
	m3uContent := gt.R1(os.ReadFile(filepath.Join(workdir, "live.m3u"))).NoError(t)
	gt.String(t, string(m3uContent)).Contains("#EXTGRP:央视")
	gt.String(t, string(m3uContent)).Contains(`tvg-id="cctv1"`)

	// live.json decodes back into channels.
	var dump struct {
		Channels []model.Channel `json:"channels"`
	}
	jsonContent := gt.R1(os.ReadFile(filepath.Join(workdir, "live.json"))).NoError(t)
	gt.NoError(t, json.Unmarshal(jsonContent, &dump))
	gt.Number(t, len(dump.Channels)).Equal(1)
	gt.Value(t, dump.Channels[0].TvgID).Equal("cctv1")
	gt.Value(t, dump.Channels[0].StreamType).Equal(model.StreamHLS)

	// epg.xml lists the channel.
	epgContent := gt.R1(os.ReadFile(filepath.Join(workdir, "epg.xml"))).NoError(t)
	gt.String(t, string(epgContent)).Contains(`<channel id="cctv1">`)
}

func TestCollector_GitHubDiscoveryFailureDegrades(t *testing.T) {
	ctx := context.Background()
	collector, finder, _ := newCollectorFixture(t)
	finder.err = fmt.Errorf("rate limited")

	report := gt.R1(collector.Collect(ctx, "")).NoError(t)
	gt.Number(t, report.SourceCount).Equal(1)
}

func TestCollector_NoSourcesIsAnError(t *testing.T) {
	ctx := context.Background()
	workdir := t.TempDir()

	collector := gt.R1(usecase.NewCollector(nil, fetch.NewClient(), workdir, &model.SourceConfig{})).NoError(t)

	_, err := collector.Collect(ctx, "")
	gt.Error(t, err)
}

func TestCollectTask_ReportsChannelCount(t *testing.T) {
	ctx := context.Background()
	collector, _, _ := newCollectorFixture(t)

	task := usecase.NewCollectTask(collector)
	gt.NoError(t, task.Run(ctx, map[string]string{usecase.TokenEnvKey: "tok"}))
	gt.Number(t, task.LastChannelCount).Equal(1)
}
