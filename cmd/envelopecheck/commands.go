package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/myposcore/backend/internal/collection"
	"github.com/myposcore/backend/internal/config"
	"github.com/myposcore/backend/internal/response"
	"github.com/myposcore/backend/internal/security"
)

// errIssuesFound makes `check` exit 1 after the report was printed.
var errIssuesFound = errors.New("collection has envelope issues")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "envelopecheck",
		Short:         "Check Postman collections against the response envelope",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd(), newFixCmd(), newCodesCmd(), newTokenCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <collection.json>",
		Short: "Report every example body that is not a valid envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := collection.Load(args[0])
			if err != nil {
				return err
			}
			rep := collection.Check(doc)
			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, rep); err != nil {
					return err
				}
			} else {
				printReport(out, doc.Name(), rep)
			}
			if !rep.OK() {
				return errIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(w io.Writer, name string, rep collection.Report) {
	fmt.Fprintf(w, "%s: %d examples checked, %d valid, %d with issues\n", name, rep.Total, rep.Valid, len(rep.Issues))
	for _, issue := range rep.Issues {
		fmt.Fprintf(w, "\n%s (HTTP %d)\n", issue.Where, issue.Status)
		for _, p := range issue.Problems {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
}

func newFixCmd() *cobra.Command {
	var (
		output string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "fix <collection.json>",
		Short: "Rewrite legacy example bodies into envelopes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := collection.Load(args[0])
			if err != nil {
				return err
			}
			rep, err := collection.Fix(doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ch := range rep.Fixed {
				fmt.Fprintf(out, "fixed    %s: %s\n", ch.Where, ch.Action)
			}
			for _, ch := range rep.Skipped {
				fmt.Fprintf(out, "skipped  %s: %s\n", ch.Where, ch.Action)
			}
			fmt.Fprintf(out, "%d examined, %d fixed, %d skipped\n", rep.Examined, len(rep.Fixed), len(rep.Skipped))

			if dryRun || len(rep.Fixed) == 0 {
				return nil
			}
			dst := args[0]
			if output != "" {
				dst = output
			}
			if err := doc.Save(dst); err != nil {
				return err
			}
			fmt.Fprintf(out, "written to %s\n", dst)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the fixed collection here instead of in place")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	return cmd
}

func newCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "Print the HTTP status to envelope code table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tHTTP\tNAME\tMESSAGE")
			for _, c := range response.Codes() {
				status := fmt.Sprint(c.Status())
				if c.IsSuccess() {
					status = "2xx"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", int(c), status, c, c.DefaultMessage())
			}
			fmt.Fprintln(tw, "1\tother\t\tany unmapped status")
			return tw.Flush()
		},
	}
}

func newTokenCmd() *cobra.Command {
	var subject, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the check-run API (needs JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTAccessTTL).Issue(subject, role)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tok)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. ci-bot")
	cmd.Flags().StringVar(&role, "role", security.RoleMaintainer, "maintainer|viewer")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
