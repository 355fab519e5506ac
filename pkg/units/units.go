// Package units formats and parses byte quantities for flags and status
// output.
package units

import (
	"fmt"

	"github.com/alecthomas/units"
)

// Bytes is a quantity of bytes.  It implements flag.Value so a byte-size
// flag accepts strings like "8MiB" or "500KB".
type Bytes int64

const (
	KB = Bytes(units.KiB)
	MB = Bytes(units.MiB)
	GB = Bytes(units.GiB)
	TB = Bytes(units.TiB)
)

func (b Bytes) String() string {
	return units.Base2Bytes(b).String()
}

func (b *Bytes) Set(s string) error {
	n, err := units.ParseStrictBytes(s)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("negative byte size: %s", s)
	}
	*b = Bytes(n)
	return nil
}

// Abbrev formats b with one decimal in the largest unit no greater than b.
func (b Bytes) Abbrev() string {
	switch {
	case b >= TB:
		return fmt.Sprintf("%.1fTB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.1fGB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.1fMB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.1fKB", float64(b)/float64(KB))
	}
	return fmt.Sprintf("%dB", b)
}
