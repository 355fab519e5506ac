package selection

import (
	"bytes"
	"errors"
	"flag"
	"io"

	"github.com/brimdata/car2pq/cli/inputflags"
	"github.com/brimdata/car2pq/cmd/car2pq/root"
	"github.com/brimdata/car2pq/pkg/charm"
	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/zio/cario"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "select",
	Usage: "select -ids file [options] file|S3-object|-",
	Short: "copy chosen blocks to a new CAR archive",
	Long: `
The select command copies the blocks of a CAR archive whose content
identifiers are listed in the -ids file to a new version 1 CAR archive.
The ids file has one identifier per line, either the base64 encoding of
the binary CID or its string form.  Blank lines and lines starting with #
are ignored.

The new archive's roots are the listed identifiers in list order and its
blocks keep their order in the input archive.  The archive is written to
standard output unless -o is given.`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	ids        string
	output     string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.ids, "ids", "", "file listing the identifiers of the blocks to copy")
	f.StringVar(&c.output, "o", "stdout", "file to receive the new archive")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("car2pq select: a single archive must be specified (- for stdin)")
	}
	if c.ids == "" {
		return errors.New("car2pq select: -ids must be specified")
	}
	engine := storage.NewLocalEngine()
	idsURI, err := storage.ParseURI(c.ids)
	if err != nil {
		return err
	}
	b, err := storage.Get(ctx, engine, idsURI)
	if err != nil {
		return err
	}
	ids, err := cario.ParseIDs(bytes.NewReader(b))
	if err != nil {
		return err
	}
	outURI, err := storage.ParseURI(c.output)
	if err != nil {
		return err
	}
	input, err := c.inputFlags.Open(ctx, engine, args[0])
	if err != nil {
		return err
	}
	defer input.Close()
	var n int
	err = storage.Replace(ctx, engine, outURI, func(w io.Writer) error {
		n, err = cario.Select(ctx, input.Reader, w, ids)
		return err
	})
	if err != nil {
		return err
	}
	c.Logger.Info("Blocks selected",
		zap.Int("ids", len(ids)),
		zap.Int("blocks", n),
		zap.Stringer("output", outURI))
	return nil
}
