// Package syncer copies a user's folders, videos and reminders between the
// local store and the remote store.
//
// A pass walks every folder of the user on the source side, then each
// folder's videos, then each video's reminders, and writes whatever is
// missing or different on the destination according to the direction's
// Policy. Nothing is ever deleted: a folder removed on one side comes back
// from the other on the next pass.
//
// Per-record failures are logged and counted in Report.Failed; a pass only
// returns an error when it cannot list the user's folders at all.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/store"
	"golang.org/x/sync/singleflight"
)

// Engine runs sync passes between two stores.
type Engine struct {
	local  store.Store
	remote store.Store
	log    logging.Logger

	inflight singleflight.Group
}

func New(local, remote store.Store, log logging.Logger) *Engine {
	return &Engine{
		local:  local,
		remote: remote,
		log:    log.With("module", "syncer"),
	}
}

// SyncLocalToRemote pushes local records to the remote store.
func (e *Engine) SyncLocalToRemote(ctx context.Context, userID string) (Report, error) {
	if userID == "" {
		return Report{}, common.ErrNoUser
	}
	return e.pass(ctx, LocalToRemote, e.local, e.remote, userID)
}

// SyncRemoteToLocal pulls remote records into the local store.
func (e *Engine) SyncRemoteToLocal(ctx context.Context, userID string) (Report, error) {
	if userID == "" {
		return Report{}, common.ErrNoUser
	}
	return e.pass(ctx, RemoteToLocal, e.remote, e.local, userID)
}

// SyncBidirectional pushes, then pulls. Calls for a user that already has a
// pass in flight wait for it and share its report instead of starting a
// second one. The shared pass is detached from any single caller's
// cancellation; a caller whose ctx ends stops waiting and gets ctx.Err().
func (e *Engine) SyncBidirectional(ctx context.Context, userID string) (Report, error) {
	if userID == "" {
		return Report{}, common.ErrNoUser
	}

	passCtx := context.WithoutCancel(ctx)
	ch := e.inflight.DoChan(userID, func() (any, error) {
		up, err := e.pass(passCtx, LocalToRemote, e.local, e.remote, userID)
		if err != nil {
			return up, err
		}
		down, err := e.pass(passCtx, RemoteToLocal, e.remote, e.local, userID)
		return up.Add(down), err
	})

	select {
	case res := <-ch:
		if res.Shared {
			e.log.Debug(ctx, "joined in-flight sync", "user_id", userID)
		}
		return res.Val.(Report), res.Err
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}

func (e *Engine) pass(ctx context.Context, dir Direction, src, dst store.Store, userID string) (Report, error) {
	log := e.log.With("direction", string(dir), "user_id", userID)
	policy := PolicyFor(dir)

	folders, err := src.Folders.ListByUser(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("list folders: %w", err)
	}

	var rep Report
	for _, f := range folders {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if !e.syncFolder(ctx, log, policy, dst, f, &rep) {
			continue
		}
		e.syncVideos(ctx, log, policy, src, dst, f.ID, &rep)
	}

	log.Info(ctx, "sync pass finished", "report", rep.String())
	return rep, nil
}

// syncFolder reports whether the folder exists on dst afterwards, so its
// videos can follow.
func (e *Engine) syncFolder(ctx context.Context, log logging.Logger, p Policy, dst store.Store, f models.Folder, rep *Report) bool {
	cur, err := dst.Folders.Get(ctx, f.ID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		inserted, err := dst.Folders.InsertIfAbsent(ctx, f)
		if err != nil {
			log.Warn(ctx, "folder insert failed", "folder_id", f.ID, "err", err)
			rep.Failed++
			return false
		}
		if inserted {
			rep.FoldersInserted++
		}
		return true
	case err != nil:
		log.Warn(ctx, "folder lookup failed", "folder_id", f.ID, "err", err)
		rep.Failed++
		return false
	}

	if p.OverwriteFolder && (cur.Name != f.Name || cur.Color != f.Color) {
		if err := dst.Folders.Update(ctx, f); err != nil {
			log.Warn(ctx, "folder update failed", "folder_id", f.ID, "err", err)
			rep.Failed++
			return true
		}
		rep.FoldersUpdated++
	}
	return true
}

func (e *Engine) syncVideos(ctx context.Context, log logging.Logger, p Policy, src, dst store.Store, folderID string, rep *Report) {
	videos, err := src.Videos.ListByFolder(ctx, folderID)
	if err != nil {
		log.Warn(ctx, "video listing failed", "folder_id", folderID, "err", err)
		rep.Failed++
		return
	}

	for _, v := range videos {
		if !e.syncVideo(ctx, log, p, dst, v, rep) {
			continue
		}
		e.syncReminders(ctx, log, src, dst, v.ID, rep)
	}
}

func (e *Engine) syncVideo(ctx context.Context, log logging.Logger, p Policy, dst store.Store, v models.Video, rep *Report) bool {
	cur, err := dst.Videos.Get(ctx, v.ID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		inserted, err := dst.Videos.InsertIfAbsent(ctx, v)
		if err != nil {
			log.Warn(ctx, "video insert failed", "video_id", v.ID, "err", err)
			rep.Failed++
			return false
		}
		if inserted {
			rep.VideosInserted++
		}
		return true
	case err != nil:
		log.Warn(ctx, "video lookup failed", "video_id", v.ID, "err", err)
		rep.Failed++
		return false
	}

	if p.OverwriteVideoContent && !cur.ContentEquals(v) {
		if err := dst.Videos.UpdateContent(ctx, v); err != nil {
			log.Warn(ctx, "video update failed", "video_id", v.ID, "err", err)
			rep.Failed++
			return true
		}
		rep.VideosUpdated++
	}
	return true
}

func (e *Engine) syncReminders(ctx context.Context, log logging.Logger, src, dst store.Store, videoID string, rep *Report) {
	reminders, err := src.Reminders.ListByVideo(ctx, videoID)
	if err != nil {
		log.Warn(ctx, "reminder listing failed", "video_id", videoID, "err", err)
		rep.Failed++
		return
	}

	for _, r := range reminders {
		inserted, err := dst.Reminders.InsertIfAbsent(ctx, r)
		if err != nil {
			log.Warn(ctx, "reminder insert failed", "reminder_id", r.ID, "err", err)
			rep.Failed++
			continue
		}
		if inserted {
			rep.RemindersInserted++
		}
	}
}
