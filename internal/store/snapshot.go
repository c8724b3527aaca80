package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"forum-rest/internal/model"
)

// Snapshot is the serialized form of the full store: all three tables
// plus both counters and the tombstone sets, so a restored store never
// reissues an id.
type Snapshot struct {
	Users    map[string]*model.User `json:"users"`
	Articles map[int]*model.Article `json:"articles"`
	Comments map[int]*model.Comment `json:"comments"`

	DeletedArticleIDs []int `json:"deletedArticleIds"`
	DeletedCommentIDs []int `json:"deletedCommentIds"`

	NextArticleID int `json:"nextArticleId"`
	NextCommentID int `json:"nextCommentId"`
}

// Snapshot deep-copies the store contents under the lock.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Users:             map[string]*model.User{},
		Articles:          map[int]*model.Article{},
		Comments:          map[int]*model.Comment{},
		DeletedArticleIDs: []int{},
		DeletedCommentIDs: []int{},
		NextArticleID:     s.nextArticleID,
		NextCommentID:     s.nextCommentID,
	}

	for name, u := range s.users {
		snap.Users[name] = u.Clone()
	}
	for id, a := range s.articles {
		snap.Articles[id] = a.Clone()
	}
	for id, c := range s.comments {
		snap.Comments[id] = c.Clone()
	}
	for id := range s.deadArticles {
		snap.DeletedArticleIDs = append(snap.DeletedArticleIDs, id)
	}
	for id := range s.deadComments {
		snap.DeletedCommentIDs = append(snap.DeletedCommentIDs, id)
	}

	return snap
}

// Restore replaces the store contents with the snapshot. Counters never
// move backwards, even if the snapshot carries stale ones.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = map[string]*model.User{}
	s.articles = map[int]*model.Article{}
	s.comments = map[int]*model.Comment{}
	s.deadArticles = map[int]struct{}{}
	s.deadComments = map[int]struct{}{}

	for name, u := range snap.Users {
		s.users[name] = u.Clone()
	}
	for id, a := range snap.Articles {
		s.articles[id] = a.Clone()
	}
	for id, c := range snap.Comments {
		s.comments[id] = c.Clone()
	}
	for _, id := range snap.DeletedArticleIDs {
		s.deadArticles[id] = struct{}{}
	}
	for _, id := range snap.DeletedCommentIDs {
		s.deadComments[id] = struct{}{}
	}

	if snap.NextArticleID > s.nextArticleID {
		s.nextArticleID = snap.NextArticleID
	}
	if snap.NextCommentID > s.nextCommentID {
		s.nextCommentID = snap.NextCommentID
	}
}

// SaveFile writes the snapshot to path via a temp file and rename, so a
// failed write never truncates the previous snapshot.
func SaveFile(path string, s *Store) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	// nolint
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmp, filepath.Clean(path))
}

// LoadFile restores the store from path. A missing file is not an
// error: the store starts empty.
func LoadFile(path string, s *Store) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return err
	}

	s.Restore(snap)

	return nil
}
