package standings

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
	"pitwall/lookup"
	"pitwall/model"
)

var (
	year         int
	round        int
	constructors bool
)

func NewStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "prints the championship standings of a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStandings(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&year,
		"year",
		"y",
		time.Now().Year(),
		"season of the standings")
	cmd.Flags().IntVarP(&round,
		"round",
		"r",
		0,
		"standings after this round (0: latest)")
	cmd.Flags().BoolVar(&constructors,
		"constructors",
		false,
		"print the constructor standings instead of the driver standings")
	return cmd
}

func printStandings(ctx context.Context, out io.Writer) error {
	common.SetupLogger()
	client := common.NewErgastClient()
	if constructors {
		list, err := client.GetConstructorStandings(ctx, year, round)
		if err != nil {
			log.Error("could not load constructor standings", log.Int("year", year), log.ErrorField(err))
			return err
		}
		return writeConstructors(out, list)
	}
	list, err := client.GetDriverStandings(ctx, year, round)
	if err != nil {
		log.Error("could not load driver standings", log.Int("year", year), log.ErrorField(err))
		return err
	}
	return writeDrivers(out, list)
}

func writeDrivers(out io.Writer, list []model.DriverStanding) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tDRIVER\tTEAM\tPOINTS\tWINS")
	for _, s := range list {
		team := ""
		if len(s.Constructors) > 0 {
			team = s.Constructors[len(s.Constructors)-1].Name
		}
		fmt.Fprintf(tw, "%s\t%s %s %s\t%s\t%s\t%s\n",
			format.Position(s.Position),
			lookup.DriverFlag(s.Driver.Nationality),
			s.Driver.GivenName,
			s.Driver.FamilyName,
			team,
			format.Points(s.Points),
			format.Wins(s.Wins))
	}
	return tw.Flush()
}

func writeConstructors(out io.Writer, list []model.ConstructorStanding) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tTEAM\tCOLOR\tPOINTS\tWINS")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			format.Position(s.Position),
			s.Constructor.Name,
			lookup.TeamColor(s.Constructor.ConstructorID),
			format.Points(s.Points),
			format.Wins(s.Wins))
	}
	return tw.Flush()
}
