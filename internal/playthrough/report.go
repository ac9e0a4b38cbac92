package playthrough

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Print writes a human readable report.
func Print(w io.Writer, rep *Report) error {
	if rep == nil {
		return nil
	}
	fmt.Fprintf(w, "Playthrough (seed %d): %d projects, %s work sessions, %d minigames, finished on day %d\n\n",
		rep.Seed, len(rep.Projects), humanize.Comma(int64(rep.Sessions)), rep.Minigames, rep.Day)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDAY\tTITLE\tQUALITY\tEFFICIENCY\tSCORE\tPAYOUT\tREP\tXP")
	for i, p := range rep.Projects {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t$%s\t+%d\t+%d\n",
			i+1, p.Day, p.Title, p.QualityScore, p.EfficiencyScore, p.FinalScore,
			humanize.Comma(int64(p.Payout)), p.RepGain, p.XPGain)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nStudio: $%s, reputation %s, player level %d\n",
		humanize.Comma(int64(rep.Money)), humanize.Comma(int64(rep.Reputation)), rep.Level)

	if len(rep.Top) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nTop reviews:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range rep.Top {
		fmt.Fprintf(tw, "  %s\t%s\t%d\tday %d\n", humanize.Ordinal(e.Rank), e.Result.Title, e.Result.FinalScore, e.Result.Day)
	}
	return tw.Flush()
}
