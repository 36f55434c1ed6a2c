package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, streak, daily challenge and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// Roll the daily challenge over if today is a new day.
			svc.CheckDailyChallenge(ctx, svc.Now())
			p := svc.Progress()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Progress"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d %s", p.Level, engine.LevelTitle(p.Level))))
			if p.Level >= engine.MaxLevel() {
				fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d %s", p.XP, ui.Gold.Render("(max level)"))))
			} else {
				cur := engine.XPRequiredForLevel(p.Level)
				next := engine.XPRequiredForLevel(p.Level + 1)
				fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d %s %s", p.XP, ui.ProgressBar(p.XP-cur, next-cur, 20), ui.Muted.Render(fmt.Sprintf("(%d to level %d)", next-p.XP, p.Level+1)))))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s) %s", ui.IconFire, p.Streak, ui.Muted.Render(fmt.Sprintf("(best %d)", p.LongestStreak)))))

			dc := p.DailyChallenge
			challenge := fmt.Sprintf("%d/%d logs today", dc.Current, dc.Target)
			if dc.Completed {
				challenge = ui.Good.Render(ui.IconDone + " completed")
			}
			fmt.Fprintln(out, ui.LabelValue("Daily challenge", challenge))
			fmt.Fprintln(out, "")

			checker := engine.NewAchievementChecker(&p, svc.Items())
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, checker.CountEarned(), checker.CountTotal())))
			for _, st := range checker.GetAchievements() {
				switch {
				case st.Unlocked:
					fmt.Fprintf(out, "- %s %s %s\n", st.Icon, ui.Good.Render(st.Name), ui.Muted.Render(st.Description))
				case all:
					fmt.Fprintf(out, "- 🔒 %s %s\n", ui.Muted.Render(st.Name), ui.Muted.Render(st.Description))
				}
			}
			return printNotices(cmd, svc)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include locked achievements")
	return cmd
}
