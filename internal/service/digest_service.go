package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// DigestService builds human-readable summaries of a user's schedule for the
// current day. It sits outside the request path; the cron runner in cmd
// decides when and where the digests go.
type DigestService struct {
	userRepo *repository.UserRepository
	calendar *CalendarService
}

func NewDigestService(userRepo *repository.UserRepository, calendar *CalendarService) *DigestService {
	return &DigestService{userRepo: userRepo, calendar: calendar}
}

// DailySummary renders one user's plan for today.
func (s *DigestService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	views, err := s.calendar.Today(ctx, user.PublicID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan for %s — %s\n", user.Nickname, now.Format(model.DateLayout))

	if len(views) == 0 {
		b.WriteString("- nothing scheduled today\n")
		return strings.TrimSpace(b.String()), nil
	}

	var total, done float64
	for _, v := range views {
		mark := " "
		if v.IsCompleted {
			mark = "x"
			done += v.AllocatedHours
		}
		total += v.AllocatedHours
		if v.SubtaskID == 0 {
			fmt.Fprintf(&b, "[%s] %s — %.1fh (%s)\n", mark, v.TaskName, v.AllocatedHours, v.Importance)
			continue
		}
		fmt.Fprintf(&b, "[%s] %s / %s — %.1fh (%s)\n", mark, v.TaskName, v.SubtaskName, v.AllocatedHours, v.Importance)
	}
	fmt.Fprintf(&b, "total %.1fh, done %.1fh\n", total, done)

	return strings.TrimSpace(b.String()), nil
}

// AllSummaries renders the daily summary for every registered user, keyed by
// nickname. Users whose summary fails are skipped so one broken account does
// not silence the rest.
func (s *DigestService) AllSummaries(ctx context.Context, now time.Time) (map[string]string, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make(map[string]string, len(users))
	for _, user := range users {
		summary, err := s.DailySummary(ctx, user, now)
		if err != nil {
			continue
		}
		out[user.Nickname] = summary
	}
	return out, nil
}
