package store

import (
	"sort"
	"sync"

	"forum-rest/internal/model"
	"forum-rest/internal/vote"
)

// Store is the in-memory relational database: users keyed by username,
// articles and comments keyed by auto-incrementing ids. Deleted ids move
// into tombstone sets and are never reissued. All cross-entity
// bookkeeping (the denormalized id lists on users and articles) happens
// inside Store methods so the mirror invariants hold after every call.
//
// A Store is an owned aggregate: construct one with New and hand it to
// the handlers. A single mutex serializes every operation because the
// invariants span multiple entities. Methods return deep copies, so
// callers can serialize results without holding the lock.
type Store struct {
	mu sync.Mutex

	users    map[string]*model.User
	articles map[int]*model.Article
	comments map[int]*model.Comment

	deadArticles map[int]struct{}
	deadComments map[int]struct{}

	nextArticleID int
	nextCommentID int
}

func New() *Store {
	return &Store{
		users:         map[string]*model.User{},
		articles:      map[int]*model.Article{},
		comments:      map[int]*model.Comment{},
		deadArticles:  map[int]struct{}{},
		deadComments:  map[int]struct{}{},
		nextArticleID: 1,
		nextCommentID: 1,
	}
}

// GetOrCreateUser returns the user with the given username, creating it
// with empty reference lists if absent. The second return reports
// whether a new user was created.
func (s *Store) GetOrCreateUser(username string) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[username]; ok {
		return u.Clone(), false
	}

	u := model.NewUser(username)
	s.users[username] = u

	return u.Clone(), true
}

func (s *Store) GetUser(username string) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, false
	}

	return u.Clone(), true
}

// UserWithRefs returns the user together with its articles and comments,
// denormalized from the user's id lists in stored order. Tombstoned
// references are filtered out.
func (s *Store) UserWithRefs(username string) (*model.User, []*model.Article, []*model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, nil, nil, false
	}

	articles := []*model.Article{}
	for _, id := range u.ArticleIDs {
		if a, ok := s.articles[id]; ok {
			articles = append(articles, a.Clone())
		}
	}

	comments := []*model.Comment{}
	for _, id := range u.CommentIDs {
		if c, ok := s.comments[id]; ok {
			comments = append(comments, c.Clone())
		}
	}

	return u.Clone(), articles, comments, true
}

// Articles returns all live articles sorted by id descending, newest
// first.
func (s *Store) Articles() []*model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []*model.Article{}
	for _, a := range s.articles {
		list = append(list, a.Clone())
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID > list[j].ID
	})

	return list
}

func (s *Store) GetArticle(id int) (*model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, false
	}

	return a.Clone(), true
}

// ArticleWithComments returns the article plus its comments denormalized
// from CommentIDs in stored order.
func (s *Store) ArticleWithComments(id int) (*model.Article, []*model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, nil, false
	}

	comments := []*model.Comment{}
	for _, cid := range a.CommentIDs {
		if c, ok := s.comments[cid]; ok {
			comments = append(comments, c.Clone())
		}
	}

	return a.Clone(), comments, true
}

// CreateArticle allocates the next article id and appends it to the
// owning user's ArticleIDs. Returns false when the user does not exist.
func (s *Store) CreateArticle(title, url, username string) (*model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, false
	}

	a := model.NewArticle(s.nextArticleID, title, url, username)
	s.nextArticleID++
	s.articles[a.ID] = a
	u.ArticleIDs = append(u.ArticleIDs, a.ID)

	return a.Clone(), true
}

// UpdateArticle overwrites title and url when the patch supplies a
// non-empty value; all other fields are immutable through this call.
func (s *Store) UpdateArticle(id int, title, url string) (*model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, false
	}

	if title != "" {
		a.Title = title
	}
	if url != "" {
		a.URL = url
	}

	return a.Clone(), true
}

// DeleteArticle tombstones the article and cascades: every comment on it
// is tombstoned and unlinked from its author, and the article id is
// removed from its owner's ArticleIDs.
func (s *Store) DeleteArticle(id int) (*model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, false
	}

	for _, cid := range a.CommentIDs {
		c, ok := s.comments[cid]
		if !ok {
			continue
		}

		delete(s.comments, cid)
		s.deadComments[cid] = struct{}{}

		if author, ok := s.users[c.Username]; ok {
			author.CommentIDs = removeID(author.CommentIDs, cid)
		}
	}
	a.CommentIDs = []int{}

	delete(s.articles, id)
	s.deadArticles[id] = struct{}{}

	if owner, ok := s.users[a.Username]; ok {
		owner.ArticleIDs = removeID(owner.ArticleIDs, id)
	}

	return a.Clone(), true
}

// VoteArticle applies an up or down vote by username to the article.
// Returns false when either the article or the user is missing.
func (s *Store) VoteArticle(id int, username string, d vote.Direction) (*model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, false
	}
	if _, ok := s.users[username]; !ok {
		return nil, false
	}

	vote.Apply(&a.VoteSets, username, d)

	return a.Clone(), true
}

// CreateComment allocates the next comment id and links it to both the
// author's CommentIDs and the parent article's CommentIDs. Returns false
// when the user or the article does not exist.
func (s *Store) CreateComment(body, username string, articleID int) (*model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, false
	}
	a, ok := s.articles[articleID]
	if !ok {
		return nil, false
	}

	c := model.NewComment(s.nextCommentID, body, username, articleID)
	s.nextCommentID++
	s.comments[c.ID] = c
	u.CommentIDs = append(u.CommentIDs, c.ID)
	a.CommentIDs = append(a.CommentIDs, c.ID)

	return c.Clone(), true
}

// UpdateComment rewrites only the body; author, parent article and vote
// sets are preserved from the stored copy.
func (s *Store) UpdateComment(id int, body string) (*model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, false
	}

	c.Body = body

	return c.Clone(), true
}

// DeleteComment tombstones the comment and removes its id from the
// author's CommentIDs and the parent article's CommentIDs.
func (s *Store) DeleteComment(id int) (*model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, false
	}

	delete(s.comments, id)
	s.deadComments[id] = struct{}{}

	if author, ok := s.users[c.Username]; ok {
		author.CommentIDs = removeID(author.CommentIDs, id)
	}
	if a, ok := s.articles[c.ArticleID]; ok {
		a.CommentIDs = removeID(a.CommentIDs, id)
	}

	return c.Clone(), true
}

// VoteComment applies an up or down vote by username to the comment.
// Returns false when either the comment or the user is missing.
func (s *Store) VoteComment(id int, username string, d vote.Direction) (*model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, false
	}
	if _, ok := s.users[username]; !ok {
		return nil, false
	}

	vote.Apply(&c.VoteSets, username, d)

	return c.Clone(), true
}

// ArticleDeleted reports whether the id belongs to a tombstoned article,
// as opposed to one that was never issued.
func (s *Store) ArticleDeleted(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.deadArticles[id]

	return ok
}

// CommentDeleted reports whether the id belongs to a tombstoned comment.
func (s *Store) CommentDeleted(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.deadComments[id]

	return ok
}

func removeID(ids []int, id int) []int {
	out := ids[:0]

	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}

	return out
}
