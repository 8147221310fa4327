package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/chazarkal/postpilot/pkg/events"
	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
)

// PublishPost pushes one post to the platform. On success the post is marked
// published with the platform id; on failure it is marked failed and the
// publish error is returned.
func (o *Orchestrator) PublishPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := o.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s", persistence.ErrPostNotFound, postID)
	}

	if post.Status == models.PostStatusPublished {
		return nil, fmt.Errorf("post %s is already published", postID)
	}

	result := o.publisher.Publish(ctx, post.Content, post.ImageURL)
	if !result.Success {
		if _, err := o.store.Posts().Update(ctx, postID, func(p *models.Post) {
			p.Status = models.PostStatusFailed
		}); err != nil {
			o.logger.ErrorContext(ctx, "Failed to mark post failed", "post_id", postID, "error", err)
		}

		return nil, fmt.Errorf("failed to publish post %s: %s", postID, result.Error)
	}

	publishedAt := time.Now().UTC()
	updated, err := o.store.Posts().Update(ctx, postID, func(p *models.Post) {
		p.MarkPublished(result.ID, publishedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record publication: %w", err)
	}

	o.publishEvent(ctx, postID, events.PostPublished{
		BaseEvent:      o.baseEvent(events.PostPublishedEvent, ""),
		PostID:         postID,
		LinkedInPostID: result.ID,
	})

	o.logger.InfoContext(ctx, "Post published", "post_id", postID, "linkedin_post_id", result.ID)

	return updated, nil
}

// SchedulePost queues an approved publication for a future time.
func (o *Orchestrator) SchedulePost(ctx context.Context, postID string, at time.Time) (*models.Post, error) {
	updated, err := o.store.Posts().Update(ctx, postID, func(p *models.Post) {
		p.Status = models.PostStatusApproved
		p.ScheduledAt = &at
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule post: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", persistence.ErrPostNotFound, postID)
	}

	return updated, nil
}

// PublishDue publishes every approved post whose scheduled time has passed.
// Individual failures are logged and do not stop the sweep.
func (o *Orchestrator) PublishDue(ctx context.Context, now time.Time) (int, error) {
	posts, err := o.store.Posts().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list posts: %w", err)
	}

	published := 0
	for _, post := range posts {
		if post.Status != models.PostStatusApproved || post.ScheduledAt == nil {
			continue
		}
		if post.ScheduledAt.After(now) {
			continue
		}

		if _, err := o.PublishPost(ctx, post.ID); err != nil {
			o.logger.ErrorContext(ctx, "Scheduled publish failed", "post_id", post.ID, "error", err)
			continue
		}

		published++
	}

	return published, nil
}
