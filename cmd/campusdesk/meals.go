package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/campusdesk/campus"
)

var mealOrder = []campus.MealType{campus.Breakfast, campus.Lunch, campus.Dinner}

func newMealsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Meal choices and headcounts",
	}

	cmd.AddCommand(newMealsChoicesCmd(opts))
	cmd.AddCommand(newMealsChooseCmd(opts))
	cmd.AddCommand(newMealsStatsCmd(opts))

	return cmd
}

func newMealsChoicesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "choices",
		Short: "Show your meal choices",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			choices, err := a.desk.MyMealChoices(ctx)
			if err != nil {
				return err
			}
			return a.print(choices, func(w io.Writer) {
				today := a.desk.Choices().Day(a.desk.Now())
				for _, meal := range mealOrder {
					pref, ok := today[meal]
					label := "not chosen"
					if ok {
						label = pref.Label()
					}
					fmt.Fprintf(w, "%-10s %s\n", meal.Label(), label)
				}
			})
		}),
	}
}

func newMealsChooseCmd(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "choose <breakfast|lunch|dinner> <veg|non_veg>",
		Short: "Choose veg or non-veg for a meal",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			choice := campus.MealChoice{
				MealType:   campus.MealType(strings.ToLower(args[0])),
				Preference: campus.Preference(strings.ToLower(strings.ReplaceAll(args[1], "-", "_"))),
			}
			if date != "" {
				day, err := time.ParseInLocation(time.DateOnly, date, a.desk.TimeZone())
				if err != nil {
					return err
				}
				choice.Date = day
			}
			return a.desk.ChooseMeal(ctx, choice)
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default today)")

	return cmd
}

func newMealsStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show today's headcount per meal",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			stats, err := a.desk.TodayMealStats(ctx)
			if err != nil {
				return err
			}
			return a.print(stats, func(w io.Writer) { printStats(w, stats) })
		}),
	}
}

func printStats(w io.Writer, stats campus.MealStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEAL\tVEG\tNON-VEG\tTOTAL")
	for _, meal := range mealOrder {
		st := stats.For(meal)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", meal.Label(), st.Veg, st.NonVeg, st.Total())
	}
	_ = tw.Flush()
}

func newScheduleCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Weekly mess menu",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "latest",
		Short: "Show the current weekly menu",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			w, err := a.desk.LatestSchedule(ctx)
			if err != nil {
				return err
			}
			return a.print(w, func(out io.Writer) { printSchedule(out, w) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "upload <file.yaml>",
		Short: "Publish a weekly menu from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := a.desk.UploadScheduleFile(ctx, f)
			if err != nil {
				return err
			}
			return a.print(w, func(out io.Writer) {
				fmt.Fprintf(out, "Uploaded menu for the week of %s\n", w.WeekStartDate)
			})
		}),
	})

	return cmd
}

func printSchedule(out io.Writer, w *campus.WeeklySchedule) {
	if w == nil {
		fmt.Fprintln(out, "No menu uploaded yet")
		return
	}
	fmt.Fprintf(out, "Week of %s\n", w.WeekStartDate)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tMEAL\tVEG\tNON-VEG")
	for _, day := range w.Menu {
		for _, meal := range mealOrder {
			dish := day.Meal(meal)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", day.Day, meal.Label(), dish.Veg, dish.NonVeg)
		}
	}
	_ = tw.Flush()
}

func newFeedbackCmd(opts *globalOptions) *cobra.Command {
	var f campus.Feedback

	cmd := &cobra.Command{
		Use:   "feedback <breakfast|lunch|dinner>",
		Short: "Rate a meal from 1 to 5",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			f.MealType = campus.MealType(strings.ToLower(args[0]))
			return a.desk.SubmitFeedback(ctx, f)
		}),
	}

	cmd.Flags().IntVar(&f.Rating, "rating", 0, "stars, 1 to 5")
	cmd.Flags().StringVar(&f.Comment, "comment", "", "optional comment")

	return cmd
}

func newChatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the campus assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			reply, err := a.desk.Chat(ctx, strings.Join(args, " "))
			if reply == "" && err != nil {
				return err
			}
			if perr := a.print(map[string]string{"reply": reply}, func(w io.Writer) {
				fmt.Fprintln(w, reply)
			}); perr != nil {
				return perr
			}
			return err
		}),
	}
}
