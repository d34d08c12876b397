package main

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/UkralStul/threaded-board/internal/service"
)

// fillWithMockData создает два поста, небольшую ветку под первым и пустой
// второй пост для ручной проверки.
func fillWithMockData(ctx context.Context, posts service.PostService, comments service.CommentService) error {
	// 1. Создаем пост.
	post, err := posts.Create(ctx, "Threaded comments in Go", "A post to try the comment endpoints against.", "user-1")
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create post: %w", err)
	}

	// 2. Корневой комментарий и ответ на него.
	c1, err := comments.CreateComment(ctx, post.ID, "Great post, very informative.", "user-2")
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create comment 1: %w", err)
	}

	if _, err = comments.CreateReply(ctx, c1.ID, "Thanks! Glad you liked it.", "user-1"); err != nil {
		return fmt.Errorf("fillWithMockData: failed to create reply: %w", err)
	}

	if _, err = comments.CreateComment(ctx, post.ID, "How does it behave with many replies?", "user-3"); err != nil {
		return fmt.Errorf("fillWithMockData: failed to create comment 2: %w", err)
	}

	// 3. Второй пост без комментариев.
	quiet, err := posts.Create(ctx, "A quiet post", "Nobody has commented here yet.", "user-admin")
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create second post: %w", err)
	}

	log.Info("Mock data filled successfully.", "post_id", post.ID, "quiet_post_id", quiet.ID)
	return nil
}
