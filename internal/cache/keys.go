package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%s"
	PostKeyPrefix  = "post:%s"
	JobKeyPrefix   = "job:%s"
	MediaKeyPrefix = "media:%s"
)

const (
	UserTTL  = 5 * time.Minute
	PostTTL  = 30 * time.Minute
	JobTTL   = 30 * time.Minute
	MediaTTL = 10 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func JobKey(jobID string) string {
	return fmt.Sprintf(JobKeyPrefix, jobID)
}

func MediaKey(mediaID string) string {
	return fmt.Sprintf(MediaKeyPrefix, mediaID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateJob(ctx context.Context, jobID string) {
	Invalidate(ctx, JobKey(jobID))
}
