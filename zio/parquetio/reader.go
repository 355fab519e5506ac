package parquetio

import (
	"errors"
	"io"

	goparquet "github.com/fraugster/parquet-go"
)

// Reader reads the rows of a parquet file as nested maps.  It is used to
// inspect files produced by Writer.
type Reader struct {
	fr *goparquet.FileReader
}

func NewReader(r io.Reader) (*Reader, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, errors.New("reader cannot seek")
	}
	fr, err := goparquet.NewFileReader(rs)
	if err != nil {
		return nil, err
	}
	return &Reader{fr: fr}, nil
}

// Schema returns the file's schema in parquet's message format.
func (r *Reader) Schema() string {
	return r.fr.GetSchemaDefinition().String()
}

func (r *Reader) NumRows() int64 {
	return r.fr.NumRows()
}

// Read returns the next row or nil at end of file.  Byte-array values are
// returned as []byte and repeated values as slices.
func (r *Reader) Read() (map[string]interface{}, error) {
	row, err := r.fr.NextRow()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}
