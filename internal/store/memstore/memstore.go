// Package memstore is an in-memory store.Store used by tests and by the
// client when it runs without a remote backend.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/store"
)

// Memory holds folders, videos and reminders in maps guarded by one mutex.
// Failures can be injected per operation name ("folders.Insert",
// "videos.UpdateContent", ...) to exercise error paths.
type Memory struct {
	mu        sync.RWMutex
	folders   map[string]models.Folder
	videos    map[string]models.Video
	reminders map[string]models.Reminder
	failures  map[string]error
	writes    int
}

func New() *Memory {
	return &Memory{
		folders:   map[string]models.Folder{},
		videos:    map[string]models.Video{},
		reminders: map[string]models.Reminder{},
		failures:  map[string]error{},
	}
}

// Store exposes m through the repository interfaces.
func (m *Memory) Store() store.Store {
	return store.Store{
		Folders:   folderRepo{m},
		Videos:    videoRepo{m},
		Reminders: reminderRepo{m},
	}
}

// FailOn makes op return err until cleared with a nil err.
func (m *Memory) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Writes counts successful mutating calls.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *Memory) Folders() []models.Folder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Folder, 0, len(m.folders))
	for _, f := range m.folders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) Videos() []models.Video {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Video, 0, len(m.videos))
	for _, v := range m.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) Reminders() []models.Reminder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) fail(op string) error {
	if err, ok := m.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type folderRepo struct{ m *Memory }

func (r folderRepo) Get(_ context.Context, id string) (models.Folder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.fail("folders.Get"); err != nil {
		return models.Folder{}, err
	}
	f, ok := r.m.folders[id]
	if !ok {
		return models.Folder{}, common.ErrNotFound
	}
	return f, nil
}

func (r folderRepo) ListByUser(_ context.Context, userID string) ([]models.Folder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.fail("folders.ListByUser"); err != nil {
		return nil, err
	}
	var out []models.Folder
	for _, f := range r.m.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedDate != out[j].CreatedDate {
			return out[i].CreatedDate > out[j].CreatedDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r folderRepo) Insert(_ context.Context, f models.Folder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("folders.Insert"); err != nil {
		return err
	}
	if _, ok := r.m.folders[f.ID]; ok {
		return fmt.Errorf("folder %s already exists", f.ID)
	}
	r.m.folders[f.ID] = f
	r.m.writes++
	return nil
}

func (r folderRepo) InsertIfAbsent(_ context.Context, f models.Folder) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("folders.InsertIfAbsent"); err != nil {
		return false, err
	}
	if _, ok := r.m.folders[f.ID]; ok {
		return false, nil
	}
	r.m.folders[f.ID] = f
	r.m.writes++
	return true, nil
}

func (r folderRepo) Update(_ context.Context, f models.Folder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("folders.Update"); err != nil {
		return err
	}
	cur, ok := r.m.folders[f.ID]
	if !ok {
		return common.ErrNotFound
	}
	cur.Name, cur.Color = f.Name, f.Color
	r.m.folders[f.ID] = cur
	r.m.writes++
	return nil
}

func (r folderRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("folders.Delete"); err != nil {
		return err
	}
	if _, ok := r.m.folders[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.folders, id)
	r.m.writes++
	return nil
}

type videoRepo struct{ m *Memory }

func (r videoRepo) Get(_ context.Context, id string) (models.Video, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.fail("videos.Get"); err != nil {
		return models.Video{}, err
	}
	v, ok := r.m.videos[id]
	if !ok {
		return models.Video{}, common.ErrNotFound
	}
	return v, nil
}

func (r videoRepo) ListByFolder(_ context.Context, folderID string) ([]models.Video, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.fail("videos.ListByFolder"); err != nil {
		return nil, err
	}
	var out []models.Video
	for _, v := range r.m.videos {
		if v.FolderID == folderID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SavedDate != out[j].SavedDate {
			return out[i].SavedDate > out[j].SavedDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r videoRepo) Insert(_ context.Context, v models.Video) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("videos.Insert"); err != nil {
		return err
	}
	if _, ok := r.m.videos[v.ID]; ok {
		return fmt.Errorf("video %s already exists", v.ID)
	}
	r.m.videos[v.ID] = v
	r.m.writes++
	return nil
}

func (r videoRepo) InsertIfAbsent(_ context.Context, v models.Video) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("videos.InsertIfAbsent"); err != nil {
		return false, err
	}
	if _, ok := r.m.videos[v.ID]; ok {
		return false, nil
	}
	r.m.videos[v.ID] = v
	r.m.writes++
	return true, nil
}

func (r videoRepo) UpdateContent(_ context.Context, v models.Video) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("videos.UpdateContent"); err != nil {
		return err
	}
	cur, ok := r.m.videos[v.ID]
	if !ok {
		return common.ErrNotFound
	}
	r.m.videos[v.ID] = cur.WithContentOf(v)
	r.m.writes++
	return nil
}

func (r videoRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("videos.Delete"); err != nil {
		return err
	}
	if _, ok := r.m.videos[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.videos, id)
	r.m.writes++
	return nil
}

func (r videoRepo) DeleteByFolder(_ context.Context, folderID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("videos.DeleteByFolder"); err != nil {
		return err
	}
	for id, v := range r.m.videos {
		if v.FolderID == folderID {
			delete(r.m.videos, id)
			r.m.writes++
		}
	}
	return nil
}

type reminderRepo struct{ m *Memory }

func (r reminderRepo) Get(_ context.Context, id string) (models.Reminder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.fail("reminders.Get"); err != nil {
		return models.Reminder{}, err
	}
	rem, ok := r.m.reminders[id]
	if !ok {
		return models.Reminder{}, common.ErrNotFound
	}
	return rem, nil
}

func (r reminderRepo) ListByVideo(_ context.Context, videoID string) ([]models.Reminder, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if err := r.m.fail("reminders.ListByVideo"); err != nil {
		return nil, err
	}
	var out []models.Reminder
	for _, rem := range r.m.reminders {
		if rem.VideoID == videoID {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r reminderRepo) Insert(_ context.Context, rem models.Reminder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("reminders.Insert"); err != nil {
		return err
	}
	if _, ok := r.m.reminders[rem.ID]; ok {
		return fmt.Errorf("reminder %s already exists", rem.ID)
	}
	r.m.reminders[rem.ID] = rem
	r.m.writes++
	return nil
}

func (r reminderRepo) InsertIfAbsent(_ context.Context, rem models.Reminder) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("reminders.InsertIfAbsent"); err != nil {
		return false, err
	}
	if _, ok := r.m.reminders[rem.ID]; ok {
		return false, nil
	}
	r.m.reminders[rem.ID] = rem
	r.m.writes++
	return true, nil
}

func (r reminderRepo) SetActive(_ context.Context, id string, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("reminders.SetActive"); err != nil {
		return err
	}
	rem, ok := r.m.reminders[id]
	if !ok {
		return common.ErrNotFound
	}
	rem.IsActive = active
	r.m.reminders[id] = rem
	r.m.writes++
	return nil
}

func (r reminderRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("reminders.Delete"); err != nil {
		return err
	}
	if _, ok := r.m.reminders[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.reminders, id)
	r.m.writes++
	return nil
}

func (r reminderRepo) DeleteByVideo(_ context.Context, videoID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("reminders.DeleteByVideo"); err != nil {
		return err
	}
	for id, rem := range r.m.reminders {
		if rem.VideoID == videoID {
			delete(r.m.reminders, id)
			r.m.writes++
		}
	}
	return nil
}
