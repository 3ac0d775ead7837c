package index

// Stats summarizes the size of the index for admin/control-plane
// reporting. Per-tag counts are reported separately, as api.TagStatus.
type Stats struct {
	TotalEntries int64 `json:"total_entries"`
	TotalTags    int64 `json:"total_tags"`
}
