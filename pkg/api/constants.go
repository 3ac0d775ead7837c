package api

import "time"

// Constants used throughout the index, ingestion, and search paths.
const (
	VersionString = "1.0.0"

	// DefaultSearchThreshold is the default Hamming-distance cutoff: half
	// of the 128 bits. Candidates 64 or more bits away are dropped.
	DefaultSearchThreshold = 64

	// MaxFingerprintBits is the total bit width of a combined fingerprint.
	MaxFingerprintBits = 128

	// FingerprintBytes is the byte width of a combined fingerprint.
	FingerprintBytes = 16

	// MaxSearchTags is the upstream board's hard limit on tags per search.
	MaxSearchTags = 2

	// MaxSearchPages bounds the page counter during a paginated search.
	MaxSearchPages = 1000

	// MaxPageRetries is the number of consecutive failed page fetches
	// tolerated before a search pass is abandoned.
	MaxPageRetries = 5

	// PostsPerPage is the upstream board's page size.
	PostsPerPage = 200

	// DefaultMinDownloadDelay enforces global politeness between fetches.
	DefaultMinDownloadDelay = 1 * time.Second

	// PageFetchPacing is the sleep issued before every page request.
	PageFetchPacing = 500 * time.Millisecond

	// DefaultRefreshInterval is how often the Discoverer re-walks the
	// monitored tag list.
	DefaultRefreshInterval = 30 * time.Minute

	// DownloadChunkBytes is the stream buffer size for image downloads.
	DownloadChunkBytes = 8 * 1024

	// DefaultCacheSize bounds the in-process LRU fronting IndexStore.Load.
	DefaultCacheSize = 4096

	// DefaultUpstreamBaseURL is the board queried absent an operator
	// override in config.
	DefaultUpstreamBaseURL = "https://danbooru.donmai.us"

	// DefaultListenAddr is the search server's default bind address.
	DefaultListenAddr = ":8080"
)

// DefaultExcludeTags lists blocked tags. During discovery,
// upstream.Search drops any post carrying one of them client-side,
// after the page is fetched; the index layer does not re-check them.
var DefaultExcludeTags = []string{
	"loli",
	"beastiality",
	"guro",
	"shadman",
}
