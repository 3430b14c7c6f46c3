package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-portal/internal/dto"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

// requestDesk is the slice of the reconciler portalctl drives.
type requestDesk interface {
	FetchAllBatchRequests(ctx context.Context) ([]dto.EnrichedBatchRequest, error)
	FetchAllCourseRequests(ctx context.Context) ([]dto.EnrichedCourseRequest, error)
	Swap(ctx context.Context, req dto.SwapRequest) (*dto.ActionOutcome, error)
	Approve(ctx context.Context, id string) (*dto.ActionOutcome, error)
	Reject(ctx context.Context, id, reason string) (*dto.ActionOutcome, error)
	ApproveCourseRequest(ctx context.Context, id, batchID string) (*dto.ActionOutcome, error)
	RejectCourseRequest(ctx context.Context, id, reason string) (*dto.ActionOutcome, error)
}

type connectFunc func(ctx context.Context, token string) (context.Context, requestDesk, func(), error)

type cli struct {
	token   string
	output  string
	out     io.Writer
	connect connectFunc
}

func newRootCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operate on batch and course change requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.token == "" {
				app.token = os.Getenv(tokenEnv)
			}
			switch app.output {
			case "table", "json":
			default:
				return fmt.Errorf("unknown output format %q", app.output)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&app.token, "token", "", "Admin identity token (defaults to $"+tokenEnv+")")
	cmd.PersistentFlags().StringVarP(&app.output, "output", "o", "table", "Output format (table, json)")

	cmd.AddCommand(app.listCmd(), app.swapCmd(), app.approveCmd(), app.approveCourseCmd(), app.rejectCmd())
	return cmd
}

func (app *cli) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending change requests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "batch",
		Short: "List pending batch change requests with their swap candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withDesk(cmd, func(ctx context.Context, desk requestDesk) error {
				items, err := desk.FetchAllBatchRequests(ctx)
				if err != nil {
					return err
				}
				if app.output == "json" {
					return app.writeJSON(items)
				}
				return renderBatchRequests(app.out, items)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "course",
		Short: "List pending course change requests with their assignable batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withDesk(cmd, func(ctx context.Context, desk requestDesk) error {
				items, err := desk.FetchAllCourseRequests(ctx)
				if err != nil {
					return err
				}
				if app.output == "json" {
					return app.writeJSON(items)
				}
				return renderCourseRequests(app.out, items)
			})
		},
	})
	return cmd
}

func (app *cli) swapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <request-id> <request-id>",
		Short: "Approve two pending batch requests as a mutual exchange",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == args[1] {
				return errors.New("swap needs two distinct request ids")
			}
			return app.withDesk(cmd, func(ctx context.Context, desk requestDesk) error {
				outcome, err := desk.Swap(ctx, dto.SwapRequest{RequestID1: args[0], RequestID2: args[1]})
				return app.report(outcome, err)
			})
		},
	}
}

func (app *cli) approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending batch change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withDesk(cmd, func(ctx context.Context, desk requestDesk) error {
				outcome, err := desk.Approve(ctx, args[0])
				return app.report(outcome, err)
			})
		},
	}
}

func (app *cli) approveCourseCmd() *cobra.Command {
	var batchID string
	cmd := &cobra.Command{
		Use:   "approve-course <request-id>",
		Short: "Approve a pending course change request into a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withDesk(cmd, func(ctx context.Context, desk requestDesk) error {
				outcome, err := desk.ApproveCourseRequest(ctx, args[0], batchID)
				return app.report(outcome, err)
			})
		},
	}
	cmd.Flags().StringVar(&batchID, "batch", "", "Batch of the requested course to place the student in")
	_ = cmd.MarkFlagRequired("batch")
	return cmd
}

func (app *cli) rejectCmd() *cobra.Command {
	var (
		reason string
		course bool
	)
	cmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a pending change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withDesk(cmd, func(ctx context.Context, desk requestDesk) error {
				var (
					outcome *dto.ActionOutcome
					err     error
				)
				if course {
					outcome, err = desk.RejectCourseRequest(ctx, args[0], reason)
				} else {
					outcome, err = desk.Reject(ctx, args[0], reason)
				}
				return app.report(outcome, err)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the student")
	cmd.Flags().BoolVar(&course, "course", false, "Reject a course change request instead of a batch one")
	return cmd
}

func (app *cli) withDesk(cmd *cobra.Command, fn func(ctx context.Context, desk requestDesk) error) error {
	if strings.TrimSpace(app.token) == "" {
		return fmt.Errorf("an admin identity token is required (--token or $%s)", tokenEnv)
	}
	ctx, desk, cleanup, err := app.connect(cmd.Context(), app.token)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, desk)
}

// report prints the outcome. A request someone else already decided is
// printed like any other outcome and then surfaced as ErrAlreadyProcessed so
// scripts can tell it apart from a change portalctl applied.
func (app *cli) report(outcome *dto.ActionOutcome, err error) error {
	if err != nil {
		return err
	}
	if app.output == "json" {
		if err := app.writeJSON(outcome); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(app.out, "%s: %s\n", outcome.Outcome, strings.Join(outcome.RequestIDs, ", "))
		if outcome.Notice != "" {
			fmt.Fprintln(app.out, outcome.Notice)
		}
	}
	if outcome.Outcome == dto.OutcomeAlreadyProcessed {
		return appErrors.Clone(appErrors.ErrAlreadyProcessed, outcome.Notice)
	}
	return nil
}

func (app *cli) writeJSON(v any) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderBatchRequests(w io.Writer, items []dto.EnrichedBatchRequest) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTUDENT\tFROM\tTO\tSEATS\tSTATUS\tSWAP WITH")
	for _, item := range items {
		seats := fmt.Sprintf("%d", item.SeatsRemaining)
		if !item.SeatsAvailable {
			seats = "full"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.StudentName, item.CurrentBatchName, item.RequestedBatchName,
			seats, item.Status, dashIfEmpty(strings.Join(item.SwapCandidateIDs, ",")))
	}
	return tw.Flush()
}

func renderCourseRequests(w io.Writer, items []dto.EnrichedCourseRequest) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTUDENT\tFROM\tTO\tSTATUS\tBATCHES")
	for _, item := range items {
		batches := make([]string, 0, len(item.AvailableBatches))
		for _, b := range item.AvailableBatches {
			batches = append(batches, fmt.Sprintf("%s(%d)", b.ID, b.SeatsRemaining))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.StudentName, dashIfEmpty(item.CurrentCourseName), item.RequestedCourseName,
			item.Status, dashIfEmpty(strings.Join(batches, ",")))
	}
	return tw.Flush()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
