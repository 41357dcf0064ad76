package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/brbond/calendar"
	"github.com/meenmo/brbond/utils"
)

type calendarOutput struct {
	Calendar      calendar.CalendarID `json:"calendar"`
	Start         string              `json:"start,omitempty"`
	End           string              `json:"end,omitempty"`
	Date          string              `json:"date,omitempty"`
	Days          *int                `json:"days,omitempty"`
	Result        string              `json:"result,omitempty"`
	BusinessDays  *int                `json:"business_days,omitempty"`
	IsBusinessDay *bool               `json:"is_business_day,omitempty"`
	Year          int                 `json:"year,omitempty"`
	Holidays      []string            `json:"holidays,omitempty"`
}

func (a *app) newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Business-day utilities for the ANBIMA and B3 calendars",
	}
	cmd.PersistentFlags().String("calendar", string(calendar.Settlement), "calendar: ANBIMA (settlement) or B3 (exchange)")

	bdays := &cobra.Command{
		Use:   "bdays",
		Short: "Business days in (start, end]",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendarFlag(cmd)
			if err != nil {
				return err
			}
			start, err := dateFlag(cmd, "start")
			if err != nil {
				return err
			}
			end, err := dateFlag(cmd, "end")
			if err != nil {
				return err
			}
			n := calendar.BusinessDaysBetween(cal, start, end)
			a.logger.Debug("bdays", zap.String("calendar", string(cal)), zap.Int("business_days", n))
			return a.writeJSON(calendarOutput{
				Calendar:     cal,
				Start:        utils.FormatDate(start),
				End:          utils.FormatDate(end),
				BusinessDays: &n,
			})
		},
	}
	bdays.Flags().String("start", "", "start date (YYYY-MM-DD)")
	bdays.Flags().String("end", "", "end date (YYYY-MM-DD)")

	add := &cobra.Command{
		Use:   "add",
		Short: "Move a date by n business days (negative goes back)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendarFlag(cmd)
			if err != nil {
				return err
			}
			d, err := dateFlag(cmd, "date")
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("days")
			return a.writeJSON(calendarOutput{
				Calendar: cal,
				Date:     utils.FormatDate(d),
				Days:     &n,
				Result:   utils.FormatDate(calendar.AddBusinessDays(cal, d, n)),
			})
		},
	}
	add.Flags().String("date", "", "date (YYYY-MM-DD)")
	add.Flags().IntP("days", "n", 1, "business days to add")

	adjust := &cobra.Command{
		Use:   "adjust",
		Short: "Roll a date forward to the next business day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendarFlag(cmd)
			if err != nil {
				return err
			}
			d, err := dateFlag(cmd, "date")
			if err != nil {
				return err
			}
			ok := calendar.IsBusinessDay(cal, d)
			return a.writeJSON(calendarOutput{
				Calendar:      cal,
				Date:          utils.FormatDate(d),
				IsBusinessDay: &ok,
				Result:        utils.FormatDate(calendar.AdjustFollowing(cal, d)),
			})
		},
	}
	adjust.Flags().String("date", "", "date (YYYY-MM-DD)")

	holidays := &cobra.Command{
		Use:   "holidays",
		Short: "List weekday holidays of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendarFlag(cmd)
			if err != nil {
				return err
			}
			year, _ := cmd.Flags().GetInt("year")
			if !calendar.Supports(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)) {
				return fmt.Errorf("--year %d outside the supported calendar range", year)
			}
			days := calendar.Holidays(cal, year)
			out := calendarOutput{Calendar: cal, Year: year, Holidays: make([]string, 0, len(days))}
			for _, d := range days {
				out.Holidays = append(out.Holidays, utils.FormatDate(d))
			}
			return a.writeJSON(out)
		},
	}
	holidays.Flags().Int("year", 0, "calendar year")
	_ = holidays.MarkFlagRequired("year")

	cmd.AddCommand(bdays, add, adjust, holidays)
	return cmd
}

func calendarFlag(cmd *cobra.Command) (calendar.CalendarID, error) {
	v, _ := cmd.Flags().GetString("calendar")
	return calendar.ParseCalendarID(v)
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, fmt.Errorf("--%s is required", name)
	}
	d, err := utils.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	if !calendar.Supports(d) {
		return time.Time{}, fmt.Errorf("--%s: year %d outside the supported calendar range", name, d.Year())
	}
	return d, nil
}

func (a *app) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(b))
	return err
}
