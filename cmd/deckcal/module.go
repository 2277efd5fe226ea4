package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/deckcal"
	"github.com/aretw0/deckcal/internal/presentation/tui"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/modules"
	"github.com/spf13/cobra"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Resolve module names and inspect module geometry",
}

var moduleResolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Print the canonical model for a module load name",
	Long:  `Resolves a user-facing module name such as "magdeck" or "Temperature Module GEN2" to its canonical model. Without arguments, lists every known name.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			for _, alias := range modules.Aliases() {
				fmt.Fprintln(cmd.OutOrStdout(), alias)
			}
			return
		}
		if err := resolveModule(cmd.OutOrStdout(), args[0]); err != nil {
			fmt.Printf("Error resolving module: %v\n", err)
			os.Exit(1)
		}
	},
}

var moduleShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Load a module onto a slot and describe its geometry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := showOptions{name: args[0]}
		opts.slot, _ = cmd.Flags().GetString("slot")
		opts.origin.X, _ = cmd.Flags().GetFloat64("x")
		opts.origin.Y, _ = cmd.Flags().GetFloat64("y")
		opts.origin.Z, _ = cmd.Flags().GetFloat64("z")
		opts.labware, _ = cmd.Flags().GetString("labware")
		opts.labwareTop, _ = cmd.Flags().GetFloat64("labware-top")
		opts.closeLid, _ = cmd.Flags().GetBool("close-lid")

		var extra []deckcal.Option
		if level, _ := cmd.Flags().GetString("api-level"); level != "" {
			api, err := domain.ParseAPIVersion(level)
			if err != nil {
				fmt.Printf("Error parsing api level: %v\n", err)
				os.Exit(1)
			}
			extra = append(extra, deckcal.WithAPILevel(api))
		}

		deck, _ := mustOpenDeck(cmd, extra...)
		defer deck.Close()

		md, err := showModule(cmd.Context(), deck, opts)
		if err != nil {
			fmt.Printf("Error loading module: %v\n", err)
			os.Exit(1)
		}
		render := tui.NewRenderer()
		out, err := render(md)
		if err != nil {
			out = md
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(moduleCmd)
	moduleCmd.AddCommand(moduleResolveCmd, moduleShowCmd)

	moduleShowCmd.Flags().String("slot", "1", "Deck slot the module sits on")
	moduleShowCmd.Flags().Float64("x", 0, "Slot origin X (mm)")
	moduleShowCmd.Flags().Float64("y", 0, "Slot origin Y (mm)")
	moduleShowCmd.Flags().Float64("z", 0, "Slot origin Z (mm)")
	moduleShowCmd.Flags().String("api-level", "", "API level to load at (default from config)")
	moduleShowCmd.Flags().String("labware", "", "Name of a labware to place on the module")
	moduleShowCmd.Flags().Float64("labware-top", 0, "Absolute top height of the labware (mm)")
	moduleShowCmd.Flags().Bool("close-lid", false, "Close the thermocycler lid after placing labware")
}

func resolveModule(w io.Writer, name string) error {
	model, err := modules.ResolveModuleModel(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, model)
	return nil
}

type showOptions struct {
	name       string
	slot       string
	origin     domain.Point
	labware    string
	labwareTop float64
	closeLid   bool
}

// showModule loads the module described by opts and returns its markdown
// summary.
func showModule(ctx context.Context, deck *deckcal.Deck, opts showOptions) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	parent := domain.Location{Point: opts.origin, Labware: domain.Slot(opts.slot)}
	m, err := deck.LoadModule(ctx, strings.TrimSpace(opts.name), parent)
	if err != nil {
		return "", err
	}
	if opts.labware != "" {
		if _, err := m.AddLabware(domain.StaticLabware{Name: opts.labware, Top: opts.labwareTop}); err != nil {
			return "", err
		}
	}
	if opts.closeLid {
		if err := m.SetLidStatus(modules.LidClosed); err != nil {
			return "", err
		}
	}
	return tui.ModuleMarkdown(m), nil
}
