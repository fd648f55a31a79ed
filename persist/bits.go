package persist

import "math"

func doubleToBits(v float64) uint64 { return math.Float64bits(v) }

func bitsToDouble(v uint64) float64 { return math.Float64frombits(v) }
