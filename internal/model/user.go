package model

// User data model. Users are created on first reference and never
// deleted. ArticleIDs and CommentIDs mirror the sets of live articles
// and comments authored by this user, in creation order.
type User struct {
	Username   string `json:"username"`
	ArticleIDs []int  `json:"articleIds"`
	CommentIDs []int  `json:"commentIds"`
}

func NewUser(username string) *User {
	return &User{
		Username:   username,
		ArticleIDs: []int{},
		CommentIDs: []int{},
	}
}

func (u *User) Clone() *User {
	c := *u
	c.ArticleIDs = append([]int{}, u.ArticleIDs...)
	c.CommentIDs = append([]int{}, u.CommentIDs...)

	return &c
}
