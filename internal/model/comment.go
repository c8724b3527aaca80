package model

// Comment data model. A comment always references a live article at
// creation time; deleting the article tombstones its comments.
type Comment struct {
	ID        int    `json:"id"`
	Body      string `json:"body"`
	Username  string `json:"username"` // the author
	ArticleID int    `json:"articleId"`

	VoteSets
}

func NewComment(id int, body, username string, articleID int) *Comment {
	return &Comment{
		ID:        id,
		Body:      body,
		Username:  username,
		ArticleID: articleID,
		VoteSets:  NewVoteSets(),
	}
}

func (c *Comment) Clone() *Comment {
	cc := *c
	cc.VoteSets = c.VoteSets.Clone()

	return &cc
}
