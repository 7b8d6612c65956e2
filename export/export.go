// Package export writes generated parts to disk: one STL per part, a JSON
// manifest describing them, and optionally DXF cutting outlines of the
// sign plates and a GeoJSON map of the plan.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/assemble"
	"github.com/signpost3d/signpost/plan"
	"github.com/signpost3d/signpost/render"
	"github.com/yofu/dxf"
)

// ManifestFile is the name of the manifest written next to the parts.
const ManifestFile = "manifest.json"

// Options controls what is written.
type Options struct {
	// ASCII writes text STL instead of binary.
	ASCII bool
	// DXF also writes the outline of every sign.
	DXF bool
	// Log receives a line per part. The zero value discards.
	Log zerolog.Logger
}

// Entry describes one written part.
type Entry struct {
	Part string `json:"part"`
	File string `json:"file"`
	DXF  string `json:"dxf,omitempty"`
	// Size is the STL size for people, e.g. "1.2 MB".
	Size string `json:"size"`
	assemble.Metadata
}

// Manifest lists the parts of one run.
type Manifest struct {
	Name  string            `json:"name"`
	Units signpost.Units    `json:"units"`
	Home  signpost.Location `json:"home"`
	Parts []Entry           `json:"parts"`
}

// Write writes parts into dir, creating it if needed, and returns the
// manifest it wrote. Parts are written in name order.
func Write(dir string, cfg signpost.Config, parts map[string]assemble.Part, opts Options) (Manifest, error) {
	log := opts.Log
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, err
	}
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	m := Manifest{Name: cfg.Name, Units: cfg.Units, Home: cfg.Home}
	for _, name := range names {
		p := parts[name]
		e := Entry{Part: name, File: name + ".stl", Metadata: p.Meta}
		path := filepath.Join(dir, e.File)
		n, err := writeSTL(path, p, opts.ASCII)
		if err != nil {
			return Manifest{}, fmt.Errorf("part %s: %w", name, err)
		}
		e.Size = humanize.Bytes(uint64(n))
		if opts.DXF && p.Outline != nil {
			e.DXF = name + ".dxf"
			if err := WriteDXF(filepath.Join(dir, e.DXF), p.Outline); err != nil {
				return Manifest{}, fmt.Errorf("part %s: %w", name, err)
			}
		}
		log.Info().Str("part", name).Str("file", path).Str("size", e.Size).
			Int("triangles", p.Meta.Triangles).Msg("wrote part")
		m.Parts = append(m.Parts, e)
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Manifest{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), append(b, '\n'), 0o644); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func writeSTL(path string, p assemble.Part, ascii bool) (int, error) {
	var buf bytes.Buffer
	var err error
	if ascii {
		err = render.WriteASCIISTL(&buf, p.Name, p.Mesh.Triangles())
	} else {
		err = render.WriteSTL(&buf, p.Mesh.Triangles())
	}
	if err != nil {
		return 0, err
	}
	return buf.Len(), os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteDXF writes a sign outline: the plate on layer "plate" and the id
// holes on layer "holes".
func WriteDXF(path string, o *assemble.Outline) error {
	if o == nil || len(o.Plate) < 3 {
		return fmt.Errorf("dxf %s: no outline", path)
	}
	d := dxf.NewDrawing()
	if _, err := d.AddLayer("plate", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for i, a := range o.Plate {
		b := o.Plate[(i+1)%len(o.Plate)]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return err
		}
	}
	if len(o.Holes) > 0 {
		if _, err := d.AddLayer("holes", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return err
		}
		for _, h := range o.Holes {
			if _, err := d.Circle(h.X, h.Y, 0, o.HoleRadius); err != nil {
				return err
			}
		}
	}
	return d.SaveAs(path)
}

// WritePlanGeoJSON writes the plan of cfg as a GeoJSON feature collection.
func WritePlanGeoJSON(path string, cfg signpost.Config, segs []plan.Segment) error {
	fc, err := plan.FeatureCollection(cfg, segs)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
