package vote

import (
	"forum-rest/internal/model"
)

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "downvote"
	}

	return "upvote"
}

// Apply records username's vote on v. The username is removed from the
// opposite-direction set unconditionally, then its membership in the
// target-direction set is toggled: voting twice in the same direction
// is an unvote. Callers must already have confirmed the user exists.
func Apply(v *model.VoteSets, username string, d Direction) {
	target := &v.UpvotedBy
	opposite := &v.DownvotedBy

	if d == Down {
		target, opposite = opposite, target
	}

	*opposite = remove(*opposite, username)

	if contains(*target, username) {
		*target = remove(*target, username)
	} else {
		*target = append(*target, username)
	}
}

func contains(set []string, username string) bool {
	for _, u := range set {
		if u == username {
			return true
		}
	}

	return false
}

func remove(set []string, username string) []string {
	out := set[:0]

	for _, u := range set {
		if u != username {
			out = append(out, u)
		}
	}

	return out
}
