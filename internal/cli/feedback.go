package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Radiola/internal/app"
	"github.com/shaiso/Radiola/internal/repo"
	"github.com/shaiso/Radiola/internal/sched/tasks"
)

// NewFeedbackCmd создаёт команду ручного now-playing feedback.
//
// Контракт вывода строковый, для скриптов:
//
//	"OK"             — feedback принят
//	"false"          — станция не найдена
//	"Error: <msg>"   — ошибка workflow (и ненулевой код выхода)
func NewFeedbackCmd(envFn func(cmd *cobra.Command) (*app.Env, error)) *cobra.Command {
	var song string
	var media string
	var playlist string

	cmd := &cobra.Command{
		Use:   "feedback STATION_ID",
		Short: "Report a song change on a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envFn(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			stationID, err := uuid.Parse(args[0])
			if err != nil {
				// Невалидный id — такой станции заведомо нет.
				fmt.Fprint(cmd.OutOrStdout(), "false")
				return nil
			}

			station, err := env.Stations().GetByID(cmd.Context(), stationID)
			if errors.Is(err, repo.ErrNotFound) {
				fmt.Fprint(cmd.OutOrStdout(), "false")
				return nil
			}
			if err != nil {
				return err
			}

			np := env.NowPlayingTask(cmd.Context())
			if err := np.QueueStation(cmd.Context(), station, tasks.FeedbackMeta{
				SongID:     song,
				MediaID:    media,
				PlaylistID: playlist,
			}); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&song, "song", "", "Unique song id of the track")
	cmd.Flags().StringVar(&media, "media", "", "Media id of the track")
	cmd.Flags().StringVar(&playlist, "playlist", "", "Source playlist id")

	return cmd
}
