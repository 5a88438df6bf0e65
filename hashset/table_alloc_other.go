//go:build !unix

package hashset

// allocTable falls back to a plain heap allocation on platforms without an
// anonymous-mmap syscall exposed through golang.org/x/sys/unix. This trades
// away the "RSS proportional to population" property; capacity is still
// bounded by nbytes, but every page is committed up front.
func allocTable(nbytes int) []uint64 {
	if nbytes == 0 {
		return nil
	}
	return make([]uint64, nbytes/8)
}

func freeTable(cells []uint64) {
	// Heap-backed; released by the garbage collector once unreferenced.
}
