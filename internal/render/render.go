// Package render writes selected records to an output stream.
package render

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/starford/ficor/internal/models"
)

// Options controls which columns List prints.
type Options struct {
	ShowInfo bool
	ShowTags bool
}

// List writes one record per line: the path, then the tag expression in
// brackets and the info text when requested.
func List(w io.Writer, recs []models.Record, opts Options) error {
	bw := bufio.NewWriter(w)
	for i := range recs {
		r := &recs[i]
		bw.WriteString(r.Path)
		if opts.ShowTags {
			fmt.Fprintf(bw, " [%s]", r.Tags.String())
		}
		if opts.ShowInfo && r.HasInfo() {
			fmt.Fprintf(bw, " %q", *r.Info)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// dumpRecord is the YAML shape of one record in a dump.
type dumpRecord struct {
	Path     string   `yaml:"path"`
	Info     *string  `yaml:"info,omitempty"`
	TagCount int      `yaml:"tag_count"`
	Tags     []string `yaml:"tags,flow"`
}

// Dump writes every record as its own YAML document.
func Dump(w io.Writer, recs []models.Record) error {
	if len(recs) == 0 {
		return nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for i := range recs {
		r := &recs[i]
		tags := []string(r.Tags)
		if tags == nil {
			tags = []string{}
		}
		if err := enc.Encode(dumpRecord{
			Path:     r.Path,
			Info:     r.Info,
			TagCount: len(r.Tags),
			Tags:     tags,
		}); err != nil {
			return fmt.Errorf("render: dump %s: %w", r.Path, err)
		}
	}
	return enc.Close()
}
