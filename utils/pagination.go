package utils

// Window is one contiguous slice of a requested result page,
// assigned to a single fan-out sub-query.
type Window struct {
	Skip  int
	Limit int
}

// TotalPages computes ceil(totalResults / perPage).
func TotalPages(totalResults int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((totalResults + int64(perPage) - 1) / int64(perPage))
}

// PageSkip computes the number of documents preceding the requested page.
func PageSkip(page int, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

// PartitionWindow splits the window [skip, skip+size) into `partitions`
// disjoint, contiguous sub-windows of equal size, the last absorbing the
// remainder of the integer division. Reconstructing the page depends on
// these sub-windows staying non-overlapping and contiguous; callers must
// concatenate sub-query results in sub-window order.
func PartitionWindow(skip int, size int, partitions int) []Window {
	windows := make([]Window, partitions)
	partitionSize := size / partitions

	offset := skip
	for i := 0; i < partitions; i++ {
		limit := partitionSize
		if i == partitions-1 {
			limit = size - partitionSize*(partitions-1)
		}
		windows[i] = Window{Skip: offset, Limit: limit}
		offset += limit
	}

	return windows
}
