package remote

import (
	"context"
	"fmt"

	"family-sync/core/model"
)

func userKey(id int) string       { return fmt.Sprintf("%s%d.json", usersPrefix, id) }
func postKey(id string) string    { return postsPrefix + id + ".json" }
func commentKey(id string) string { return commentsPrefix + id + ".json" }
func statusKey(userID int) string { return fmt.Sprintf("%s%d.json", statusesPrefix, userID) }

// FetchUsers returns the whole user directory.
func (c *Client) FetchUsers(ctx context.Context) Result[[]model.User] {
	return fetchAll[model.User](ctx, c, usersPrefix)
}

// FetchUser returns a single user document. ErrParsing means the record
// does not exist yet.
func (c *Client) FetchUser(ctx context.Context, id int) Result[model.User] {
	return fetchOne[model.User](ctx, c, userKey(id))
}

// FetchPosts returns every post in the feed collection.
func (c *Client) FetchPosts(ctx context.Context) Result[[]model.Post] {
	return fetchAll[model.Post](ctx, c, postsPrefix)
}

// FetchPost returns a single post document.
func (c *Client) FetchPost(ctx context.Context, id string) Result[model.Post] {
	return fetchOne[model.Post](ctx, c, postKey(id))
}

// FetchPostsByUser returns the posts authored by one user. The filter is
// applied client-side over the collection listing, so staleness carries
// through unchanged.
func (c *Client) FetchPostsByUser(ctx context.Context, userID int) Result[[]model.Post] {
	res := c.FetchPosts(ctx)
	if res.Err != nil {
		return res
	}
	filtered := make([]model.Post, 0, len(res.Value))
	for _, p := range res.Value {
		if p.UserID == userID {
			filtered = append(filtered, p)
		}
	}
	res.Value = filtered
	return res
}

// FetchComments returns every comment.
func (c *Client) FetchComments(ctx context.Context) Result[[]model.Comment] {
	return fetchAll[model.Comment](ctx, c, commentsPrefix)
}

// FetchCommentsByPost returns the comments attached to one post.
func (c *Client) FetchCommentsByPost(ctx context.Context, postID string) Result[[]model.Comment] {
	res := c.FetchComments(ctx)
	if res.Err != nil {
		return res
	}
	filtered := make([]model.Comment, 0, len(res.Value))
	for _, cm := range res.Value {
		if cm.PostID == postID {
			filtered = append(filtered, cm)
		}
	}
	res.Value = filtered
	return res
}

// FetchStatuses returns the presence rows of every user.
func (c *Client) FetchStatuses(ctx context.Context) Result[[]model.PresenceStatus] {
	return fetchAll[model.PresenceStatus](ctx, c, statusesPrefix)
}

// UpsertUser writes a user document. The write is probe-guarded.
func (c *Client) UpsertUser(ctx context.Context, u model.User) error {
	return put(ctx, c, usersPrefix, userKey(u.ID), u)
}

// UpsertUsers writes several user documents behind a single probe.
func (c *Client) UpsertUsers(ctx context.Context, users []model.User) error {
	if err := c.Probe(ctx); err != nil {
		return err
	}
	for _, u := range users {
		if err := putUnprobed(ctx, c, usersPrefix, userKey(u.ID), u); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPost writes a post document. The write is probe-guarded.
func (c *Client) UpsertPost(ctx context.Context, p model.Post) error {
	return put(ctx, c, postsPrefix, postKey(p.ID), p)
}

// UpsertComment writes a comment document. The write is probe-guarded.
func (c *Client) UpsertComment(ctx context.Context, cm model.Comment) error {
	return put(ctx, c, commentsPrefix, commentKey(cm.ID), cm)
}

// UpsertStatus writes a presence row. The write is probe-guarded.
func (c *Client) UpsertStatus(ctx context.Context, st model.PresenceStatus) error {
	return put(ctx, c, statusesPrefix, statusKey(st.UserID), st)
}
