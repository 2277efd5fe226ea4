package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aretw0/deckcal"
	"github.com/aretw0/deckcal/internal/presentation/graph"
	"github.com/aretw0/deckcal/internal/presentation/tui"
	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/aretw0/deckcal/pkg/session"
	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:     "calibrate",
	Aliases: []string{"cal"},
	Short:   "Run and manage pipette calibration sessions",
}

var calibrateStartCmd = &cobra.Command{
	Use:   "start [workflow]",
	Short: "Start a calibration session",
	Long:  `Starts a session of the given workflow (pipetteOffset or pipetteOffsetWithTipLength) and prints its ID.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		id, _ := cmd.Flags().GetString("id")
		s, err := startSession(cmd.Context(), deck, calibration.Workflow(args[0]), id)
		if err != nil {
			fmt.Printf("Error starting session: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.ID)
	},
}

var calibrateSendCmd = &cobra.Command{
	Use:   "send [session-id] [command...]",
	Short: "Submit one or more commands to a session",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		if err := sendCommands(cmd.Context(), cmd.OutOrStdout(), deck, args[0], args[1:]); err != nil {
			fmt.Printf("Error sending command: %v\n", err)
			os.Exit(1)
		}
	},
}

var calibrateShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Describe a session and the commands it accepts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		asJSON, _ := cmd.Flags().GetBool("json")
		out, err := showSession(cmd.Context(), deck, args[0], asJSON)
		if err != nil {
			fmt.Printf("Error loading session: %v\n", err)
			os.Exit(1)
		}
		if !asJSON {
			if rendered, err := tui.NewRenderer()(out); err == nil {
				out = rendered
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	},
}

var calibrateJournalCmd = &cobra.Command{
	Use:   "journal [session-id]",
	Short: "List every command submitted to a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		if err := printJournal(cmd.Context(), cmd.OutOrStdout(), deck, args[0]); err != nil {
			fmt.Printf("Error reading journal: %v\n", err)
			os.Exit(1)
		}
	},
}

var calibrateListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		if err := listSessions(cmd.Context(), cmd.OutOrStdout(), deck); err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}
	},
}

var calibrateRemoveCmd = &cobra.Command{
	Use:     "rm [session-id...]",
	Aliases: []string{"delete"},
	Short:   "Delete one or more sessions",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		for _, id := range args {
			if err := deck.EndSession(cmd.Context(), id); err != nil {
				fmt.Printf("Error deleting session '%s': %v\n", id, err)
				os.Exit(1)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' deleted.\n", id)
		}
	},
}

var calibrateGraphCmd = &cobra.Command{
	Use:   "graph [workflow]",
	Short: "Export a workflow transition table as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the workflow. With --session, the states the session visited are highlighted.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deck, _ := mustOpenDeck(cmd)
		defer deck.Close()

		var workflow calibration.Workflow
		if len(args) > 0 {
			workflow = calibration.Workflow(args[0])
		}
		sessionID, _ := cmd.Flags().GetString("session")
		out, err := workflowGraph(cmd.Context(), deck, workflow, sessionID)
		if err != nil {
			fmt.Printf("Error generating graph: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.AddCommand(
		calibrateStartCmd,
		calibrateSendCmd,
		calibrateShowCmd,
		calibrateJournalCmd,
		calibrateListCmd,
		calibrateRemoveCmd,
		calibrateGraphCmd,
	)

	calibrateStartCmd.Flags().String("id", "", "Use this session ID instead of a generated one")
	calibrateShowCmd.Flags().Bool("json", false, "Print the raw session as JSON")
	calibrateGraphCmd.Flags().String("session", "", "Highlight the path taken by this session")
}

func startSession(ctx context.Context, deck *deckcal.Deck, workflow calibration.Workflow, id string) (*session.Session, error) {
	if id == "" {
		return deck.StartSession(ctx, workflow)
	}
	return deck.Manager().StartWithID(ctx, id, workflow)
}

// sendCommands submits cmds in order and prints the state reached after
// each one. It stops at the first rejection.
func sendCommands(ctx context.Context, w io.Writer, deck *deckcal.Deck, sessionID string, cmds []string) error {
	for _, c := range cmds {
		s, err := deck.Send(ctx, sessionID, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s -> %s\n", c, s.State)
	}
	return nil
}

func showSession(ctx context.Context, deck *deckcal.Deck, sessionID string, asJSON bool) (string, error) {
	s, err := deck.Session(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if asJSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal session: %w", err)
		}
		return string(data) + "\n", nil
	}
	allowed, err := deck.AllowedCommands(s)
	if err != nil {
		return "", err
	}
	names := make([]string, len(allowed))
	for i, c := range allowed {
		names[i] = string(c)
	}
	return tui.SessionMarkdown(s, names), nil
}

func printJournal(ctx context.Context, w io.Writer, deck *deckcal.Deck, sessionID string) error {
	entries, err := deck.Journal(ctx, sessionID)
	if err != nil {
		return err
	}
	if entries == nil {
		fmt.Fprintln(w, "No journal configured (set journal.sqlite in the config file).")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCOMMAND\tFROM\tTO\tRESULT")
	for _, e := range entries {
		result := "ok"
		if !e.Accepted {
			result = e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Timestamp.Format("15:04:05"), e.Command, e.From, e.To, result)
	}
	return tw.Flush()
}

func listSessions(ctx context.Context, w io.Writer, deck *deckcal.Deck) error {
	ids, err := deck.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWORKFLOW\tSTATE\tUPDATED")
	for _, id := range ids {
		s, err := deck.Session(ctx, id)
		if err != nil {
			fmt.Fprintf(tw, "%s\t?\t?\t%v\n", id, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Workflow, s.State, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

// workflowGraph renders the workflow chart. When sessionID is set the
// workflow defaults to the session's and its path is overlaid.
func workflowGraph(ctx context.Context, deck *deckcal.Deck, workflow calibration.Workflow, sessionID string) (string, error) {
	var overlay *graph.GraphOverlay
	if sessionID != "" {
		s, err := deck.Session(ctx, sessionID)
		if err != nil {
			return "", err
		}
		if workflow == "" {
			workflow = calibration.Workflow(s.Workflow)
		}
		overlay = &graph.GraphOverlay{CurrentState: s.State}
		for _, h := range s.History {
			overlay.VisitedStates = append(overlay.VisitedStates, h.From, h.To)
		}
	}
	if workflow == "" {
		workflow = calibration.WorkflowPipetteOffset
	}
	sm, err := calibration.ForWorkflow(workflow)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(sm.Machine(), overlay), nil
}
