package model

// Point is one 15-minute reading of a production or consumption meter.
// Slot is kept as the raw label of the source file ("dd.mm hh:mm" or
// "dd/mm/yyyy hh:mm"); Value is the energy measured over the interval.
type Point struct {
	Slot  string
	Value float64
}

func sumPoints(points []Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}
