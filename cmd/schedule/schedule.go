package schedule

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pitwall/cmd/common"
	"pitwall/format"
	"pitwall/log"
	"pitwall/season"
	"pitwall/weekend"
)

var (
	year     int
	calendar bool
)

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "prints the race weekends of a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchedule(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&year,
		"year",
		"y",
		time.Now().Year(),
		"season to print")
	cmd.Flags().BoolVar(&calendar,
		"ics",
		false,
		"print the season as iCalendar instead of a table")
	return cmd
}

func printSchedule(ctx context.Context, out io.Writer) error {
	common.SetupLogger()
	weekends, err := common.NewErgastClient().GetWeekends(ctx, year)
	if err != nil {
		log.Error("could not load season", log.Int("year", year), log.ErrorField(err))
		return err
	}
	if calendar {
		cal := season.Calendar(fmt.Sprintf("Formula 1 %d", year), weekends, time.Now())
		return cal.SerializeTo(out)
	}
	return writeTable(out, weekends)
}

func writeTable(out io.Writer, weekends []*weekend.Weekend) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUND\tRACE\tCIRCUIT\tCOUNTRY\tSTART\tSESSIONS\tSTATUS")
	for _, w := range weekends {
		status := "done"
		if w.IsUpcoming() {
			status = "upcoming"
		}
		loc := w.Race.Circuit.Location
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			format.Round(w.Round()),
			w.Race.RaceName,
			w.Race.Circuit.CircuitName,
			loc.Country,
			w.WeekendStart(),
			len(w.Sessions()),
			status)
	}
	return tw.Flush()
}
