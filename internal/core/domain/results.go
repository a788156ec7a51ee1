package domain

// Winner holds the maximum points of a category and every user reaching it.
type Winner struct {
	Category Category `json:"category"`
	Points   int      `json:"points"`
	Users    []string `json:"users"`
}

// RankEntry is one row of a top-N leaderboard.
type RankEntry struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// PointsSummary bundles the votes a user received since a cutoff.
type PointsSummary struct {
	UserID string `json:"user_id"`
	Votes  int    `json:"votes"`
	Points Points `json:"points"`
}
