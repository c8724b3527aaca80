package model

// Article data model. CommentIDs mirrors the set of live comments whose
// ArticleID equals this article's id; the store keeps the two in sync.
type Article struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"` // the author

	CommentIDs []int `json:"commentIds"`

	VoteSets
}

func NewArticle(id int, title, url, username string) *Article {
	return &Article{
		ID:         id,
		Title:      title,
		URL:        url,
		Username:   username,
		CommentIDs: []int{},
		VoteSets:   NewVoteSets(),
	}
}

func (a *Article) Clone() *Article {
	c := *a
	c.CommentIDs = append([]int{}, a.CommentIDs...)
	c.VoteSets = a.VoteSets.Clone()

	return &c
}
