package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/player"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/progress"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/tui"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	playPlain  bool
	playRating int
	playSpeed  int
)

var playCmd = &cobra.Command{
	Use:   "play <hub> <exercise>",
	Short: "Play an exercise of a hub (exercise is 1-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := wireApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		hub, err := a.catalog.Hub(args[0])
		if err != nil {
			return err
		}
		exercise, err := exerciseArg(a, hub.ID, args[1])
		if err != nil {
			return err
		}

		speed, err := startingSpeed(a)
		if err != nil {
			return err
		}

		summary, lastSpeed, err := runPlayer(ctx, a, hub, exercise, speed)
		if err != nil {
			return err
		}
		if err := utils.SavePlayerState(a.dir, &models.PlayerState{LastSpeed: int(lastSpeed), LastHub: hub.ID}); err != nil {
			a.logger.Warn("could not save player state", "err", err)
		}

		if summary == nil || !summary.Completed {
			fmt.Println("Exercise closed. See you next time.")
			return nil
		}

		rating := playRating
		if rating == 0 {
			rating, err = askRating(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		award, err := a.service.RecordCompletion(ctx, hub.ID, exercise.Name, exercise.Index, rating)
		if err != nil {
			return fmt.Errorf("Failed to record completion: %w", err)
		}
		printAward(award)
		return nil
	},
}

// exerciseArg resolves the 1-based exercise number given on the command line.
func exerciseArg(a *app, hubID, arg string) (models.Exercise, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("invalid exercise number: %s", arg)
	}
	return a.catalog.Exercise(hubID, n-1)
}

// startingSpeed picks the --speed flag, else the remembered speed when settings
// keep it between sessions, else 1x.
func startingSpeed(a *app) (player.Speed, error) {
	if playSpeed != 0 {
		s := player.Speed(playSpeed)
		if !s.Valid() {
			return 0, fmt.Errorf("speed must be 1, 2 or 3")
		}
		return s, nil
	}
	if a.settings.ResetSlowdownEachSession {
		return player.Speed1x, nil
	}
	state, err := utils.LoadPlayerState(a.dir)
	if err != nil {
		return 0, err
	}
	if s := player.Speed(state.LastSpeed); s.Valid() {
		return s, nil
	}
	return player.Speed1x, nil
}

// runPlayer plays the steps and reports how the run ended. A nil summary means
// the run was closed before completion.
func runPlayer(ctx context.Context, a *app, hub models.Hub, exercise models.Exercise, speed player.Speed) (*models.RunSummary, player.Speed, error) {
	opts := []player.Option{
		player.WithEmitter(a.emitter),
		player.WithLogger(a.logger),
		player.WithInitialSpeed(speed),
	}

	if playPlain {
		return runPlain(ctx, hub, exercise, opts)
	}

	bridge := tui.NewBridge()
	eng := player.New(hub.ID, exercise.Steps, append(opts, bridge.Options()...)...)
	defer eng.Close()

	final, err := tui.Run(ctx, tui.NewPlayer(hub, exercise, eng, bridge, a.settings))
	if err != nil {
		return nil, speed, err
	}
	summary, _ := final.Summary()
	return summary, eng.Snapshot().Speed, nil
}

// runPlain plays without a terminal UI, printing each step as it starts. It
// only stops early on interrupt.
func runPlain(ctx context.Context, hub models.Hub, exercise models.Exercise, opts []player.Option) (*models.RunSummary, player.Speed, error) {
	done := make(chan *models.RunSummary, 1)
	stepStyle := color.New(color.FgMagenta, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	var mu sync.Mutex
	lastMode, lastIndex := player.ModeIdle, -1
	opts = append(opts,
		player.OnChange(func(s player.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if s.Mode == lastMode && s.StepIndex == lastIndex {
				return
			}
			lastMode, lastIndex = s.Mode, s.StepIndex
			switch s.Mode {
			case player.ModeRunning:
				fmt.Printf("%s %s\n", stepStyle(fmt.Sprintf("[%d/%d]", s.StepIndex+1, s.TotalSteps)), s.Step.Text)
			case player.ModeIntervalGap:
				if s.Next != nil {
					fmt.Println(faint(fmt.Sprintf("  next in %ds: %s", s.Remaining, s.Next.Text)))
				}
			}
		}),
		player.OnComplete(func(s models.RunSummary) { done <- &s }),
		player.OnClose(func() { done <- nil }),
	)

	eng := player.New(hub.ID, exercise.Steps, opts...)
	printBoxedHeader(fmt.Sprintf("%s %s", hub.Icon, exercise.Name))
	eng.Start()

	select {
	case summary := <-done:
		return summary, eng.Snapshot().Speed, nil
	case <-ctx.Done():
		eng.Close()
		return <-done, eng.Snapshot().Speed, nil
	}
}

func askRating(in io.Reader) (int, error) {
	reader := bufio.NewReader(in)
	for {
		fmt.Print("How do you feel now? (1-5): ")
		line, err := reader.ReadString('\n')
		if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && n >= 1 && n <= 5 {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("Failed to read rating: %w", err)
		}
		fmt.Println("Please answer with a number from 1 to 5.")
	}
}

func printAward(award progress.Award) {
	pink := color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	fmt.Printf("✅ Well done. +%s 🌸\n", pink(award.Total()))
	printMetric("Completion", award.Base)
	if award.FirstOfDay > 0 {
		printMetric("First of the day", award.FirstOfDay)
	}
	if award.Sequence > 0 {
		printMetric("Hub sequence complete", award.Sequence)
	}
	for _, b := range award.Badges {
		printMetric("Badge unlocked", fmt.Sprintf("%s (+%d)", b.Name, progress.BadgeBlossoms))
	}
	printMetric("Streak", fmt.Sprintf("%d days", award.Streak))
	printMetric("Level", award.Level)
	if award.Sync.Status == progress.SyncDone {
		printMetric("Synced", fmt.Sprintf("%d records", award.Sync.Pushed))
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playPlain, "plain", false, "Print steps instead of opening the player")
	playCmd.Flags().IntVarP(&playRating, "rating", "r", 0, "Rating 1-5 (asked for when omitted)")
	playCmd.Flags().IntVarP(&playSpeed, "speed", "s", 0, "Starting slowdown 1, 2 or 3")
}
