package model

// SourceConfig controls where the collector finds playlists and which
// channels it keeps. Loaded from a TOML file; the defaults mirror the
// original curated source set.
type SourceConfig struct {
	// CustomURLs are always fetched, independent of GitHub discovery.
	CustomURLs []string `toml:"custom_urls"`

	// GitHubKeywords drive repository search. Empty disables discovery.
	GitHubKeywords []string `toml:"github_keywords"`

	// ReposPerKeyword limits how many repositories each keyword yields.
	ReposPerKeyword int `toml:"repos_per_keyword"`

	// AllowedCategories keeps only channels whose group contains one of
	// these. Empty keeps every group.
	AllowedCategories []string `toml:"allowed_categories"`

	// BlockKeywords drops channels whose title contains any of these.
	BlockKeywords []string `toml:"block_keywords"`

	// ValidateStreams toggles the reachability probe.
	ValidateStreams bool `toml:"validate_streams"`

	// EPGURL is referenced from the generated playlist header. Empty uses
	// the generated epg.xml.
	EPGURL string `toml:"epg_url"`
}

// DefaultSourceConfig returns the built-in source set.
func DefaultSourceConfig() *SourceConfig {
	return &SourceConfig{
		CustomURLs: []string{
			"https://raw.githubusercontent.com/iptv-org/iptv/master/index.m3u",
		},
		GitHubKeywords:    []string{"IPTV", "直播源", "直播地址"},
		ReposPerKeyword:   3,
		AllowedCategories: []string{"央视", "卫视", "电影", "体育"},
		BlockKeywords:     []string{"成人", "测试", "失效"},
		ValidateStreams:   true,
		EPGURL:            "epg.xml",
	}
}
