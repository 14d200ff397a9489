package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// sweepRow is one resampling result.
type sweepRow struct {
	Samples int
	Length  float32
	StdDev  float32
}

func cmdSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	from := fs.Int("from", 8, "Smallest sample count")
	to := fs.Int("to", 4096, "Largest sample count")
	quiet := fs.Bool("q", false, "Hide the progress bar")
	fs.Parse(args)

	_, points, ups, err := loadPoints(fs)
	if err != nil {
		return err
	}
	counts := sampleCounts(*from, *to)
	if len(counts) == 0 {
		return fmt.Errorf("no sample counts between %d and %d", *from, *to)
	}

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.NewOptions(len(counts),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("resampling"),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
	}

	rows, err := sweep(points, ups, counts, func() {
		if bar != nil {
			bar.Add(1)
		}
	})
	if err != nil {
		return err
	}
	writeSweep(os.Stdout, rows)
	return nil
}

// sampleCounts doubles from the first count of at least 4 up to to.
func sampleCounts(from, to int) []int {
	from = max(from, track.MinControlPoints)
	var counts []int
	for n := from; n <= to; n *= 2 {
		counts = append(counts, n)
	}
	return counts
}

// sweep resamples the same control points at every count. Resampling
// restarts from the supplied points, so one builder serves all rows.
func sweep(points, ups []math.Vec3, counts []int, step func()) ([]sweepRow, error) {
	b := track.NewBuilder()
	if err := b.SetControlPoints(points, ups); err != nil {
		return nil, err
	}
	rows := make([]sweepRow, 0, len(counts))
	for _, n := range counts {
		if err := b.UniformlySampleControlPoints(n); err != nil {
			return nil, fmt.Errorf("%d samples: %w", n, err)
		}
		rows = append(rows, sweepRow{
			Samples: n,
			Length:  track.Perimeter(b.Centreline()),
			StdDev:  track.StdDev(track.SegmentLengths(b.Centreline())),
		})
		step()
	}
	return rows, nil
}

func writeSweep(w io.Writer, rows []sweepRow) {
	fmt.Fprintf(w, "%8s  %12s  %12s\n", "samples", "length", "stddev")
	for _, r := range rows {
		fmt.Fprintf(w, "%8d  %12.4f  %12.6f\n", r.Samples, r.Length, r.StdDev)
	}
}
