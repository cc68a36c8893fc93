package events

import (
	"fmt"
	"io"
)

// WriteListing writes each event title followed by one tab-indented line per
// performer and a blank separator line.
func WriteListing(w io.Writer, evs []Event) error {
	for _, ev := range evs {
		if _, err := fmt.Fprintln(w, ev.Title); err != nil {
			return err
		}
		for _, p := range ev.Performers {
			if _, err := fmt.Fprintf(w, "\t%s (Id: %d)\n", p.Name, p.ID); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
