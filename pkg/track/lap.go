package track

import "github.com/chewxy/math32"

// CurrentLap returns the number of complete loops a travel distance covers,
// floor(d / TotalLength()). Negative distances give negative laps. It returns 0
// until the arc-length table exists.
func (b *Builder) CurrentLap(d float32) int {
	total := b.TotalLength()
	if total <= 0 {
		return 0
	}
	return int(math32.Floor(d / total))
}
