package ports

import "github.com/vncsmyrnk/votebot/internal/core/domain"

// Template keys understood by a Renderer.
const (
	TextGreeting           = "greeting"
	TextAbout              = "about"
	TextAboutThreadReply   = "about_thread_reply"
	TextRemindAboutProgram = "remind_about_program"
	TextYourPoints         = "your_points"
	TextYourVotes          = "your_votes"
	TextGotVoted           = "got_voted"
	TextVoteUpdated        = "vote_updated"
	TextAnnounceWinners    = "announce_winners"
	TextTopN               = "top_n"
	TextUserComments       = "user_comments"
	TextNoPermissions      = "no_permissions"
)

type CategoryPoints struct {
	Category string
	Points   int
}

// CategoryPointsOf lists points in form order with human labels.
func CategoryPointsOf(points domain.Points) []CategoryPoints {
	lines := make([]CategoryPoints, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		lines = append(lines, CategoryPoints{Category: category.Label(), Points: points[category]})
	}
	return lines
}

type GreetingValues struct {
	Name string
}

type YourVoteValues struct {
	User   string
	Points []CategoryPoints
}

type GotVotedValues struct {
	People int
	Points []CategoryPoints
}

type WinnerLine struct {
	Category string
	Points   int
	Users    []string
}

type RankLine struct {
	User   string
	Points int
}

type TopNValues struct {
	Category string
	N        int
	Entries  []RankLine
}

type UserCommentsValues struct {
	User     string
	Comments []Comment
}
