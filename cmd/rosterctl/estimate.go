package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/service"
)

func newReservationsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "预订人数",
	}
	cmd.AddCommand(newReservationsSetCmd(env))
	return cmd
}

func newReservationsSetCmd(env *cliEnv) *cobra.Command {
	var venueID, date string
	var covers int

	c := &cobra.Command{
		Use:   "set",
		Short: "写入 (门店, 日期) 的预订人数",
		RunE: func(cmd *cobra.Command, args []string) error {
			if covers < 0 {
				return fmt.Errorf("--covers 不能为负数")
			}
			d, err := roster.ParseDate(date)
			if err != nil {
				return err
			}

			_, _, db, err := env.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			repo := repository.NewRepository(db)
			if _, err := repo.Venue.GetByID(cmd.Context(), venueID); err != nil {
				return err
			}
			if err := repo.Reservation.Upsert(cmd.Context(), venueID, d, covers); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d\n", venueID, d, covers)
			return nil
		},
	}

	c.Flags().StringVar(&venueID, "venue", "", "门店 ID")
	c.Flags().StringVar(&date, "date", "", "日期 YYYY-MM-DD")
	c.Flags().IntVar(&covers, "covers", 0, "预订人数")
	_ = c.MarkFlagRequired("venue")
	_ = c.MarkFlagRequired("date")
	return c
}

func newEstimateCmd(env *cliEnv) *cobra.Command {
	var venueID, date string

	c := &cobra.Command{
		Use:   "estimate",
		Short: "按当前配置估算 (门店, 日期) 的需求人数",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := env.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc, err := service.NewService(cfg, repository.NewRepository(db), logger)
			if err != nil {
				return err
			}
			resp, err := svc.Roster.EstimateDemand(cmd.Context(), venueID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d\n", resp.VenueID, resp.Date, resp.Demand)
			return nil
		},
	}

	c.Flags().StringVar(&venueID, "venue", "", "门店 ID")
	c.Flags().StringVar(&date, "date", "", "日期 YYYY-MM-DD")
	_ = c.MarkFlagRequired("venue")
	_ = c.MarkFlagRequired("date")
	return c
}
