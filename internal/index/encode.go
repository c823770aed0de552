package index

import (
	"bytes"
	"encoding/binary"
	"time"
)

const (
	flagDated   byte = 0x00
	flagUndated byte = 0x01
	slugEnd     byte = 0xFF
)

// key = flag(1) + invDays(8) + invSlug + 0xFF
//
// Ascending key order is the snapshot order: newest first, undated last,
// equal dates by slug descending.
func makeDateSlugKey(published time.Time, dated bool, slug string) []byte {
	buf := make([]byte, 0, 1+8+len(slug)+1)
	if dated {
		buf = append(buf, flagDated)
	} else {
		buf = append(buf, flagUndated)
	}

	var days uint64
	if dated {
		days = uint64(published.Unix()/86400) + (1 << 32)
	}
	tmp := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp, ^days)
	buf = append(buf, tmp...)

	for i := 0; i < len(slug); i++ {
		buf = append(buf, ^slug[i])
	}
	return append(buf, slugEnd)
}

func slugFromDateSlugKey(k []byte) string {
	if len(k) < 1+8+2 || k[len(k)-1] != slugEnd {
		return ""
	}
	inv := k[9 : len(k)-1]
	if bytes.IndexByte(inv, slugEnd) >= 0 {
		return ""
	}
	out := make([]byte, len(inv))
	for i, b := range inv {
		out[i] = ^b
	}
	return string(out)
}
