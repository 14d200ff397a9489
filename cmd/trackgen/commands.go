package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/splinetrack/pkg/track"
)

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	bf := addBuildFlags(fs)
	fs.Parse(args)

	name, b, err := build(fs, bf)
	if err != nil {
		return err
	}
	writeInfo(os.Stdout, name, b)
	return nil
}

func writeInfo(w io.Writer, name string, b *track.Builder) {
	original := b.OriginalControlPoints()
	before := track.StdDev(track.SegmentLengths(original))
	after := track.StdDev(track.SegmentLengths(b.Centreline()))

	fmt.Fprintf(w, "Track:          %s\n", name)
	fmt.Fprintf(w, "Control points: %d (up vectors: %t)\n", len(original), b.HasUpVectors())
	fmt.Fprintf(w, "Polygon length: %.3f\n", track.Perimeter(original))
	fmt.Fprintf(w, "Curve length:   %.3f\n", track.Perimeter(b.Centreline()))
	fmt.Fprintf(w, "Sample table:   %.3f (length Sample and CurrentLap wrap at)\n", b.TotalLength())
	fmt.Fprintf(w, "Samples:        %d\n", len(b.Centreline()))
	fmt.Fprintf(w, "Spacing stddev: %.6f (control polygon %.6f)\n", after, before)
	fmt.Fprintf(w, "Half-width:     %.3f\n", b.HalfWidth())
	fmt.Fprintf(w, "Mesh vertices:  %d\n", len(b.TrackVertices()))
}

func cmdSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	bf := addBuildFlags(fs)
	d := fs.Float64("d", 0, "Travel distance along the centreline")
	fs.Parse(args)

	_, b, err := build(fs, bf)
	if err != nil {
		return err
	}
	return writeSample(os.Stdout, b, float32(*d))
}

func writeSample(w io.Writer, b *track.Builder, d float32) error {
	loc, ok := b.Sample(d)
	if !ok {
		return fmt.Errorf("no point at distance %g", d)
	}
	fmt.Fprintf(w, "Distance: %.3f\n", d)
	fmt.Fprintf(w, "Lap:      %d\n", b.CurrentLap(d))
	fmt.Fprintf(w, "Position: %.4f %.4f %.4f\n", loc.Position.X, loc.Position.Y, loc.Position.Z)
	if loc.HasUp {
		fmt.Fprintf(w, "Up:       %.4f %.4f %.4f\n", loc.Up.X, loc.Up.Y, loc.Up.Z)
	}
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	bf := addBuildFlags(fs)
	out := fs.String("o", "", "Output YAML file")
	fs.Parse(args)

	if *out == "" {
		return errors.New("export needs -o")
	}
	name, b, err := build(fs, bf)
	if err != nil {
		return err
	}
	set := track.NewControlPointSet(name+"-resampled", b.Centreline(), b.CentrelineUps())
	if err := track.SaveControlPoints(*out, set); err != nil {
		return err
	}
	fmt.Printf("Wrote %d points to %s\n", len(b.Centreline()), *out)
	return nil
}

func cmdOBJ(args []string) error {
	fs := flag.NewFlagSet("obj", flag.ExitOnError)
	bf := addBuildFlags(fs)
	out := fs.String("o", "", "Output OBJ file")
	fs.Parse(args)

	if *out == "" {
		return errors.New("obj needs -o")
	}
	name, b, err := build(fs, bf)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	writeOBJ(bw, name, b.TrackVertices())
	if err := bw.Flush(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d vertices to %s\n", len(b.TrackVertices()), *out)
	return nil
}

// writeOBJ writes a triangle strip as indexed OBJ faces, flipping every
// other triangle so all faces keep the strip's winding.
func writeOBJ(w io.Writer, name string, strip []track.Vertex) {
	fmt.Fprintf(w, "o %s\n", name)
	for _, v := range strip {
		fmt.Fprintf(w, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range strip {
		fmt.Fprintf(w, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
	}
	for _, v := range strip {
		fmt.Fprintf(w, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}
	for i := 0; i+2 < len(strip); i++ {
		a, b, c := i+1, i+2, i+3
		if i%2 == 1 {
			a, b = b, a
		}
		fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	out := fs.String("o", "", "Output YAML file")
	fs.Parse(args)

	if *out == "" {
		return errors.New("init needs -o")
	}
	set := track.NewControlPointSet("default", track.DefaultControlPoints(), nil)
	if err := track.SaveControlPoints(*out, set); err != nil {
		return err
	}
	fmt.Printf("Wrote %d points to %s\n", len(set.Points), *out)
	return nil
}
