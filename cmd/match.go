package main

import (
	"encoding/json"
	"io"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/spf13/cobra"
)

func matchCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Find compatible providers for a seeker",
	}
	cmd.AddCommand(matchAccommodationCmd(configPath), matchRidesCmd(configPath))
	return cmd
}

func matchAccommodationCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "accommodation <seeker-id>",
		Short: "List hosts that can take an accommodation seeker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.matching.FindCompatibleAccommodation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func matchRidesCmd(configPath *string) *cobra.Command {
	var (
		maxDistance  int
		sameDateOnly bool
		mode         string
	)

	cmd := &cobra.Command{
		Use:   "rides <seeker-id>",
		Short: "Rank vehicle owners for a ride seeker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			opts := a.matching.DefaultRideOptions()
			if cmd.Flags().Changed("max-distance") {
				opts.MaxDistance = maxDistance
			}
			opts.SameDateOnly = sameDateOnly
			opts.Mode = mode

			result, err := a.matching.FindCompatibleRides(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&maxDistance, "max-distance", 0, "Maximum postal-code distance (default from config)")
	cmd.Flags().BoolVar(&sameDateOnly, "same-date-only", true, "Only offer rides on the seeker's travel date")
	cmd.Flags().StringVar(&mode, "mode", "", "Only offer rides of this transport mode")
	return cmd
}

func statsCmd(configPath *string) *cobra.Command {
	var filter models.Filter

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard counts for both domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := a.stats.DashboardStats(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&filter.District, "district", "", "Restrict to one district")
	cmd.Flags().StringVar(&filter.State, "state", "", "Restrict to one state")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
