package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/moonandjupiter/consign-tracker/internal/app"
)

const termsText = `By confirming, you acknowledge that the quantities and amounts on this
sales report are correct and that the consigned items were sold as reported.`

// handleConfirm shows the slip of one report and asks for the terms before
// acknowledging it.
func handleConfirm(reader *bufio.Reader, out io.Writer, d *app.Dashboard, co, sr string) error {
	det, err := d.Details(co, sr)
	if err != nil {
		return err
	}
	PrintDetails(out, det)
	if det.Status.Acknowledged {
		fmt.Fprintln(out, "Already acknowledged. The slip is ready to print.")
		return nil
	}
	if !det.CanConfirm {
		fmt.Fprintf(out, "Only reports awaiting an invoice can be confirmed (status: %s).\n", det.Status.Label)
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, termsText)
	fmt.Fprint(out, "\nAccept the terms and conditions? (y/n): ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(strings.ToLower(choice))
	accepted := choice == "y" || choice == "yes"

	det, err = d.Confirm(co, sr, accepted)
	if err != nil {
		if !accepted {
			fmt.Fprintln(out, "Confirmation cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "Sales report %s for C.O. %s ACKNOWLEDGED. Status: %s.\n", det.SRID, det.CONo, det.Status.Label)
	return nil
}
