package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	githubinfra "github.com/yatagai/antenna/pkg/infra/github"
)

func TestClient_FindPlaylistURLs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		gt.String(t, r.URL.Query().Get("q")).Contains("IPTV")
		gt.Value(t, r.URL.Query().Get("sort")).Equal("updated")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"total_count": 2,
			"items": [
				{"name": "iptv-list", "owner": {"login": "alice"}},
				{"name": "live-sources", "owner": {"login": "bob"}}
			]
		}`)
	})
	mux.HandleFunc("/repos/alice/iptv-list/contents/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"type": "file", "name": "index.m3u", "download_url": "https://raw.example.com/alice/index.m3u"},
			{"type": "file", "name": "README.md", "download_url": "https://raw.example.com/alice/README.md"},
			{"type": "dir", "name": "streams", "download_url": ""}
		]`)
	})
	mux.HandleFunc("/repos/bob/live-sources/contents/", func(w http.ResponseWriter, r *http.Request) {
		// Listing failure must skip the repository, not fail the search.
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL+"/"))

	urls := gt.R1(client.FindPlaylistURLs(context.Background(), "IPTV", 3)).NoError(t)
	gt.Array(t, urls).Equal([]string{"https://raw.example.com/alice/index.m3u"})
}

func TestClient_FindPlaylistURLs_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := githubinfra.NewClient("", githubinfra.WithBaseURL(server.URL+"/"))

	_, err := client.FindPlaylistURLs(context.Background(), "IPTV", 3)
	gt.Error(t, err)
}
