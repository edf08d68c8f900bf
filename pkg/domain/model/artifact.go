package model

// DefaultArtifactPatterns are the workdir globs collected after a successful
// task. Collection is best-effort: patterns without matches are ignored.
var DefaultArtifactPatterns = []string{"live.*", "epg.xml", "report.html"}

// DefaultBundleName is the artifact bundle name used when none is configured.
const DefaultBundleName = "iptv-outputs"

// ArtifactBundle is the result of collecting output files into one archive.
type ArtifactBundle struct {
	Name  string   // Logical bundle name
	RunID string   // Run that produced the bundle
	Files []string // Workdir-relative paths of the bundled files
	Data  []byte   // Zipped bundle content
}

// IsEmpty reports whether no output file matched any pattern.
func (b *ArtifactBundle) IsEmpty() bool {
	return len(b.Files) == 0
}
