package asset

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pitwall/assets"
	"pitwall/cmd/common"
)

var (
	subject assets.Subject
	probe   bool
	all     bool
	year    int
)

func NewAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset <driver|circuit|team> <id>",
		Short: "resolves the image url of a driver, circuit or team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := assets.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown asset kind %q", args[0])
			}
			subject.Kind = kind
			subject.ID = args[1]
			return resolve(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&subject.GivenName,
		"given-name",
		"",
		"given name of a driver")
	cmd.Flags().StringVar(&subject.FamilyName,
		"family-name",
		"",
		"family name of a driver")
	cmd.Flags().StringVar(&subject.Name,
		"name",
		"",
		"display name of a circuit or team")
	cmd.Flags().StringVar(&subject.Nationality,
		"nationality",
		"",
		"nationality of a driver, used for the generated avatar")
	cmd.Flags().BoolVar(&probe,
		"probe",
		false,
		"fetch the candidates and print the first one that is reachable")
	cmd.Flags().BoolVar(&all,
		"all",
		false,
		"print every candidate tier instead of the preferred one")
	cmd.Flags().IntVarP(&year,
		"year",
		"y",
		0,
		"season used for official media urls (0: current year)")
	return cmd
}

func resolve(ctx context.Context, out io.Writer) error {
	common.SetupLogger()
	resolver, err := common.NewResolver(year)
	if err != nil {
		return err
	}
	switch {
	case all:
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIER\tURL")
		for _, c := range resolver.Candidates(subject) {
			fmt.Fprintf(tw, "%s\t%s\n", c.Tier, c.URL)
		}
		return tw.Flush()
	case probe:
		c := resolver.Probe(ctx, subject)
		fmt.Fprintf(out, "%s\t%s\n", c.Tier, c.URL)
	default:
		c := resolver.Resolve(subject)
		fmt.Fprintf(out, "%s\t%s\n", c.Tier, c.URL)
	}
	return nil
}
