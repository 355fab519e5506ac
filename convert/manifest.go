package convert

import (
	"bytes"
	"context"

	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/shape"
	"github.com/brimdata/car2pq/zio/parquetio"
	"gopkg.in/yaml.v3"
)

// A File describes one parquet file written by a conversion.
type File struct {
	Name    string   `yaml:"file"`
	Shape   string   `yaml:"shape"`
	Rows    int      `yaml:"rows"`
	Columns []string `yaml:"columns"`
}

func newFile(name string, b *shape.Bucket, sch *parquetio.Schema) File {
	cols := make([]string, 0, len(sch.Columns))
	for _, col := range sch.Columns {
		cols = append(cols, col.Path.String())
	}
	return File{
		Name:    name,
		Shape:   b.Shape.String(),
		Rows:    b.Len(),
		Columns: cols,
	}
}

type manifest struct {
	Files []File `yaml:"files"`
}

func (c *Converter) writeManifest(ctx context.Context, files []File) error {
	b, err := yaml.Marshal(manifest{Files: files})
	if err != nil {
		return err
	}
	u := c.conf.Output.AppendPath(ManifestName)
	return storage.Put(ctx, c.engine, u, bytes.NewReader(b))
}

// ReadManifest reads the manifest written to dir by a conversion.
func ReadManifest(ctx context.Context, engine storage.Engine, dir *storage.URI) ([]File, error) {
	b, err := storage.Get(ctx, engine, dir.AppendPath(ManifestName))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m.Files, nil
}
