package cmd

import (
	"fmt"

	"movie-theater/internal/usecase"

	"github.com/spf13/cobra"
)

var updateRatingsCmd = &cobra.Command{
	Use:   "update-ratings",
	Short: "Recompute every movie rating from its approved reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		service := usecase.NewService(rt.repo, rt.config, rt.cache, rt.metrics, rt.logger)
		updates, err := service.Review.RecomputeAllRatings(contextOrBackground(cmd.Context()))
		if err != nil {
			return fmt.Errorf("update ratings: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, u := range updates {
			fmt.Fprintf(out, "%s: %.1f -> %.1f\n", u.MovieID, u.OldRating, u.NewRating)
		}
		fmt.Fprintf(out, "%d movie rating(s) updated\n", len(updates))
		return nil
	},
}
