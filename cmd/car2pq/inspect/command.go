package inspect

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brimdata/car2pq/cmd/car2pq/root"
	"github.com/brimdata/car2pq/pkg/charm"
	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/zio/parquetio"
	"github.com/goccy/go-json"
)

var Cmd = &charm.Spec{
	Name:  "inspect",
	Usage: "inspect [options] file|S3-object",
	Short: "show the schema and rows of a parquet file",
	Long: `
The inspect command prints the schema and row count of a parquet file
written by convert.  With -rows, it also prints each row as a line of JSON.
Byte array values are shown in base64.`,
	New: New,
}

type Command struct {
	*root.Command
	rows bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.rows, "rows", false, "print rows as JSON")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("car2pq inspect: a single parquet file must be specified")
	}
	u, err := storage.ParseURI(args[0])
	if err != nil {
		return err
	}
	r, err := storage.NewLocalEngine().Get(ctx, u)
	if err != nil {
		return err
	}
	defer r.Close()
	rs, err := seekable(r)
	if err != nil {
		return err
	}
	pr, err := parquetio.NewReader(rs)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return c.inspect(os.Stdout, pr)
}

func (c *Command) inspect(w io.Writer, pr *parquetio.Reader) error {
	fmt.Fprintf(w, "%s\nrows: %d\n", pr.Schema(), pr.NumRows())
	if !c.rows {
		return nil
	}
	enc := json.NewEncoder(w)
	for {
		row, err := pr.Read()
		if row == nil || err != nil {
			return err
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
}

// seekable returns r if it can seek and otherwise reads it into memory.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}
