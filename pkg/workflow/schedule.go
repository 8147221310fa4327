package workflow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/chazarkal/postpilot/pkg/models"
)

// ShouldRunToday is the cron gate: the weekday must be in the publish
// schedule, the week's published count must be under the weekly quota, and
// nothing may have been published today yet. Evaluated in the configured
// timezone, falling back to UTC on a bad zone name.
func ShouldRunToday(settings *models.Settings, posts []*models.Post, now time.Time) bool {
	loc, err := time.LoadLocation(settings.PublishSchedule.Timezone)
	if err != nil {
		loc = time.UTC
	}

	local := now.In(loc)

	if !slices.Contains(settings.PublishSchedule.Days, int(local.Weekday())) {
		return false
	}

	year, week := local.ISOWeek()
	publishedThisWeek := 0

	for _, post := range posts {
		if post.Status != models.PostStatusPublished || post.PublishedAt == nil {
			continue
		}

		published := post.PublishedAt.In(loc)
		if published.Year() == local.Year() && published.YearDay() == local.YearDay() {
			return false
		}

		py, pw := published.ISOWeek()
		if py == year && pw == week {
			publishedThisWeek++
		}
	}

	return publishedThisWeek < settings.PostsPerWeek
}

// DailyTick is the cron entry point: flush due scheduled posts, then, when
// the schedule allows, top up the pending buffer and auto-publish the oldest
// approved post.
func (o *Orchestrator) DailyTick(ctx context.Context) error {
	settings, err := o.settings(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if _, err := o.PublishDue(ctx, now); err != nil {
		o.logger.ErrorContext(ctx, "Failed to publish due posts", "error", err)
	}

	posts, err := o.store.Posts().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	if !ShouldRunToday(settings, posts, now) {
		o.logger.InfoContext(ctx, "Schedule gate closed, skipping tick")
		return nil
	}

	if _, err := o.EnsureBuffer(ctx, settings.MinPendingBuffer); err != nil {
		o.logger.ErrorContext(ctx, "Buffer top-up failed", "error", err)
	}

	if !settings.AutoPublish {
		return nil
	}

	candidate := oldestApproved(posts)
	if candidate == nil {
		// the buffer run may have produced fresh approved posts
		posts, err = o.store.Posts().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}

		candidate = oldestApproved(posts)
	}

	if candidate == nil {
		o.logger.InfoContext(ctx, "No approved post available for auto-publish")
		return nil
	}

	if _, err := o.PublishPost(ctx, candidate.ID); err != nil {
		return fmt.Errorf("auto-publish failed: %w", err)
	}

	return nil
}

// oldestApproved picks the oldest approved, unscheduled post. Scheduled
// posts are left to PublishDue.
func oldestApproved(posts []*models.Post) *models.Post {
	var oldest *models.Post

	for _, post := range posts {
		if post.Status != models.PostStatusApproved || post.ScheduledAt != nil {
			continue
		}

		if oldest == nil || post.CreatedAt.Before(oldest.CreatedAt) {
			oldest = post
		}
	}

	return oldest
}
