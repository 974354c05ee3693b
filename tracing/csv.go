package tracing

import (
	"fmt"
	"io"
)

// WriteCSV writes the departures as CSV rows with a header line.
func WriteCSV(w io.Writer, departures []Departure) error {
	_, err := fmt.Fprintf(w, "Customer, Arrival, Departure, Sojourn\n")
	if err != nil {
		return err
	}

	for i, d := range departures {
		_, err = fmt.Fprintf(w, "%d, %.10f, %.10f, %.10f\n",
			i,
			d.ArrivalTime,
			d.DepartureTime,
			d.SojournTime,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
