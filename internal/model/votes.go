package model

// VoteSets carries the two vote membership lists every votable entity
// (Article, Comment) embeds. The lists are disjoint at all times; the
// vote package is the only mutator.
type VoteSets struct {
	UpvotedBy   []string `json:"upvotedBy"`
	DownvotedBy []string `json:"downvotedBy"`
}

func NewVoteSets() VoteSets {
	return VoteSets{
		UpvotedBy:   []string{},
		DownvotedBy: []string{},
	}
}

func (v VoteSets) Clone() VoteSets {
	return VoteSets{
		UpvotedBy:   append([]string{}, v.UpvotedBy...),
		DownvotedBy: append([]string{}, v.DownvotedBy...),
	}
}
