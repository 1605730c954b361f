package geom

import "math"

// Snap rounds value to the nearest multiple of tolerance.
func Snap(value, tolerance float64) float64 {
	return tolerance * math.Round(value/tolerance)
}

// IsClockwise reports whether flat[offset:end] is a clockwise ring in a
// y-up coordinate system.
func IsClockwise(flat []float64, offset, end int) bool {
	var edge float64
	if end-offset < 2*Stride {
		return false
	}
	x1, y1 := flat[end-Stride], flat[end-Stride+1]
	for i := offset; i < end; i += Stride {
		x2, y2 := flat[i], flat[i+1]
		edge += (x2 - x1) * (y2 + y1)
		x1, y1 = x2, y2
	}
	return edge > 0
}

func reverseRing(flat []float64, offset, end int) {
	for i, j := offset, end-Stride; i < j; i, j = i+Stride, j-Stride {
		flat[i], flat[j] = flat[j], flat[i]
		flat[i+1], flat[j+1] = flat[j+1], flat[i+1]
	}
}

func orientRings(flat []float64, offset int, ends []int) {
	for i, end := range ends {
		cw := IsClockwise(flat, offset, end)
		if (i == 0 && cw) || (i > 0 && !cw) {
			reverseRing(flat, offset, end)
		}
		offset = end
	}
}

// interpolate returns the point at fraction along flat[offset:end].
func interpolate(flat []float64, offset, end int, fraction float64) []float64 {
	if end <= offset {
		return nil
	}
	if end-offset == Stride {
		return []float64{flat[offset], flat[offset+1]}
	}
	var total float64
	lengths := make([]float64, 0, (end-offset)/Stride)
	lengths = append(lengths, 0)
	for i := offset + Stride; i < end; i += Stride {
		total += math.Hypot(flat[i]-flat[i-Stride], flat[i+1]-flat[i-Stride+1])
		lengths = append(lengths, total)
	}
	target := fraction * total
	for k := 1; k < len(lengths); k++ {
		if lengths[k] >= target {
			seg := lengths[k] - lengths[k-1]
			t := 0.0
			if seg > 0 {
				t = (target - lengths[k-1]) / seg
			}
			i := offset + k*Stride
			return []float64{
				flat[i-Stride] + t*(flat[i]-flat[i-Stride]),
				flat[i-Stride+1] + t*(flat[i+1]-flat[i-Stride+1]),
			}
		}
	}
	return []float64{flat[end-Stride], flat[end-Stride+1]}
}
