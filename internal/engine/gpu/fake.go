package gpu

// DrawCall records one Draw on a FakeBuffer.
type DrawCall struct {
	Mode         Primitive
	First, Count int32
}

// FakeDevice records buffers in memory. It backs renderer tests and headless runs.
type FakeDevice struct {
	Buffers []*FakeBuffer
	// Fail makes the next NewBuffer call return this error.
	Fail error
	// FailAfter lets that many NewBuffer calls succeed before Fail applies.
	FailAfter int
}

// NewBuffer validates and keeps a copy of data.
func (d *FakeDevice) NewBuffer(layout Layout, data []float32) (Buffer, error) {
	if d.Fail != nil && d.FailAfter > 0 {
		d.FailAfter--
	} else if d.Fail != nil {
		err := d.Fail
		d.Fail = nil
		return nil, err
	}
	count, err := vertexCount(layout, data)
	if err != nil {
		return nil, err
	}
	b := &FakeBuffer{
		Layout: layout,
		Data:   append([]float32(nil), data...),
		count:  count,
	}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

// Live returns the buffers that have not been released.
func (d *FakeDevice) Live() []*FakeBuffer {
	var live []*FakeBuffer
	for _, b := range d.Buffers {
		if !b.Released {
			live = append(live, b)
		}
	}
	return live
}

// FakeBuffer is an in-memory Buffer.
type FakeBuffer struct {
	Layout   Layout
	Data     []float32
	Draws    []DrawCall
	Released bool
	count    int32
}

func (b *FakeBuffer) Draw(mode Primitive, first, count int32) {
	if b.Released {
		panic("gpu: draw on released buffer")
	}
	b.Draws = append(b.Draws, DrawCall{Mode: mode, First: first, Count: count})
}

func (b *FakeBuffer) Count() int32 {
	return b.count
}

func (b *FakeBuffer) Release() {
	b.Released = true
}
