package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryEnvironment represents problems with the gh CLI setup.
	CategoryEnvironment IssueCategory = "environment"
	// CategoryConfig represents problems with the config file.
	CategoryConfig IssueCategory = "config"
	// CategoryData represents problems with the cached data files.
	CategoryData IssueCategory = "data"
)

// Fix actions understood by --fix. An empty FixAction means the issue
// needs manual intervention.
const (
	FixRemove  = "remove"  // delete a corrupt data file
	FixPrune   = "prune"   // drop stale freshness records
	FixCompact = "compact" // rewrite the repo cache within its size cap
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // file or check name
	Description string        // human-readable description
	FixAction   string        // what --fix would do
	Category    IssueCategory // issue category
	Path        string        // file the fix operates on
}

// Stats tracks healthy counts alongside the issues.
type Stats struct {
	CachedRepos    int // valid records in the repo cache
	FreshnessKeys  int // freshness records within the retention horizon
	FreshnessStale int // freshness records past the retention horizon
}
