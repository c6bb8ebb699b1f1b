package aggregate

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
)

// Percentiles summarizes a distribution.
type Percentiles struct {
	Count uint64
	Min   float64
	Max   float64
	Avg   float64
	P50   float64
	P90   float64
	P95   float64
	P99   float64
}

// Distribution keeps running statistics of a value stream with DDSketch
// percentiles. Used for written bytes per inode lifetime.
type Distribution struct {
	count uint64
	sum   float64
	min   float64
	max   float64

	// nil if the sketch could not be created
	sketch *ddsketch.DDSketch
}

// NewDistribution creates a Distribution with the given relative accuracy
// (0.01 = 1% error).
func NewDistribution(accuracy float64) *Distribution {
	d := &Distribution{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}

	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err == nil {
		d.sketch = sketch
	}
	return d
}

// Add adds a value.
func (d *Distribution) Add(value float64) {
	d.count++
	d.sum += value

	if value < d.min {
		d.min = value
	}
	if value > d.max {
		d.max = value
	}

	if d.sketch != nil {
		d.sketch.Add(value)
	}
}

// Count returns the number of values added.
func (d *Distribution) Count() uint64 {
	return d.count
}

// Result returns the summary. Percentiles are zero when nothing was added.
func (d *Distribution) Result() Percentiles {
	p := Percentiles{Count: d.count}
	if d.count == 0 {
		return p
	}

	p.Min = d.min
	p.Max = d.max
	p.Avg = d.sum / float64(d.count)

	if d.sketch != nil {
		p.P50, _ = d.sketch.GetValueAtQuantile(0.50)
		p.P90, _ = d.sketch.GetValueAtQuantile(0.90)
		p.P95, _ = d.sketch.GetValueAtQuantile(0.95)
		p.P99, _ = d.sketch.GetValueAtQuantile(0.99)
	}
	return p
}
