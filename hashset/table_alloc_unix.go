//go:build unix

package hashset

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/bergfi/dtree/d"
)

// allocTable acquires an anonymous, private, demand-paged mapping of
// nbytes and hands back a []uint64 view over it. Pages are only committed
// as they are first written, so RSS tracks the table's actual population
// rather than its configured capacity. MAP_NORESERVE is not passed, so
// the mapping is subject to the OS's normal swap-space accounting. Grounded on the mmap-based table
// reader in the teacher's nbs package, which maps its index the same way
// for the same reason (large fixed-capacity region, small live footprint).
func allocTable(nbytes int) []uint64 {
	if nbytes == 0 {
		return nil
	}
	mem, err := unix.Mmap(-1, 0, nbytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	d.PanicIfError(err)
	return unsafe.Slice((*uint64)(unsafe.Pointer(&mem[0])), nbytes/8)
}

func freeTable(cells []uint64) {
	if len(cells) == 0 {
		return
	}
	mem := unsafe.Slice((*byte)(unsafe.Pointer(&cells[0])), len(cells)*8)
	d.PanicIfError(unix.Munmap(mem))
}
