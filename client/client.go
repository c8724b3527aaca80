// Package client is a small typed client for the forum-rest API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
)

type Client struct {
	http.Client
	Addr string
}

type User struct {
	Username   string `json:"username"`
	ArticleIDs []int  `json:"articleIds"`
	CommentIDs []int  `json:"commentIds"`
}

type Article struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Username    string     `json:"username"`
	CommentIDs  []int      `json:"commentIds"`
	UpvotedBy   []string   `json:"upvotedBy"`
	DownvotedBy []string   `json:"downvotedBy"`
	Comments    []*Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID          int      `json:"id"`
	Body        string   `json:"body"`
	Username    string   `json:"username"`
	ArticleID   int      `json:"articleId"`
	UpvotedBy   []string `json:"upvotedBy"`
	DownvotedBy []string `json:"downvotedBy"`
}

// StatusError is returned when the server answers with an unexpected
// status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func VotePath(resource string, id int, up bool) string {
	action := "upvote"
	if !up {
		action = "downvote"
	}

	return fmt.Sprintf("/%s/%d/%s", resource, id, action)
}

func (c *Client) CreateUser(username string) (*User, error) {
	out := struct {
		User *User `json:"user"`
	}{}

	err := c.do("POST", "/users", map[string]string{"username": username}, &out)

	return out.User, err
}

func (c *Client) GetUser(username string) (*User, []*Article, []*Comment, error) {
	out := struct {
		User         *User      `json:"user"`
		UserArticles []*Article `json:"userArticles"`
		UserComments []*Comment `json:"userComments"`
	}{}

	err := c.do("GET", "/users/"+username, nil, &out)

	return out.User, out.UserArticles, out.UserComments, err
}

func (c *Client) Articles() ([]*Article, error) {
	out := struct {
		Articles []*Article `json:"articles"`
	}{}

	err := c.do("GET", "/articles", nil, &out)

	return out.Articles, err
}

func (c *Client) CreateArticle(title, url, username string) (*Article, error) {
	in := map[string]interface{}{
		"article": map[string]string{"title": title, "url": url, "username": username},
	}
	out := struct {
		Article *Article `json:"article"`
	}{}

	err := c.do("POST", "/articles", in, &out)

	return out.Article, err
}

func (c *Client) GetArticle(id int) (*Article, error) {
	out := struct {
		Article *Article `json:"article"`
	}{}

	err := c.do("GET", fmt.Sprintf("/articles/%d", id), nil, &out)

	return out.Article, err
}

func (c *Client) DeleteArticle(id int) error {
	return c.do("DELETE", fmt.Sprintf("/articles/%d", id), nil, nil)
}

func (c *Client) VoteArticle(id int, username string, up bool) (*Article, error) {
	out := struct {
		Article *Article `json:"article"`
	}{}

	err := c.do("PUT", VotePath("articles", id, up), map[string]string{"username": username}, &out)

	return out.Article, err
}

func (c *Client) CreateComment(body, username string, articleID int) (*Comment, error) {
	in := map[string]interface{}{
		"comment": map[string]interface{}{"body": body, "username": username, "articleId": articleID},
	}
	out := struct {
		Comment *Comment `json:"comment"`
	}{}

	err := c.do("POST", "/comments", in, &out)

	return out.Comment, err
}

func (c *Client) DeleteComment(id int) error {
	return c.do("DELETE", fmt.Sprintf("/comments/%d", id), nil, nil)
}

func (c *Client) VoteComment(id int, username string, up bool) (*Comment, error) {
	out := struct {
		Comment *Comment `json:"comment"`
	}{}

	err := c.do("PUT", VotePath("comments", id, up), map[string]string{"username": username}, &out)

	return out.Comment, err
}

func (c *Client) do(method, path string, in, out interface{}) error {
	buf := bytes.NewBuffer(nil)

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.Addr+path, buf)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, out)
}
