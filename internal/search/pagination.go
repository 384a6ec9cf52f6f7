package search

// NextPage returns page+1 when shops remain past offset+count.
func NextPage(page, count, offset, total int) (int, bool) {
	if offset+count < total {
		return page + 1, true
	}
	return 0, false
}
