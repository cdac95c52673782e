package club

const (
	ActivityWeekly  = "weekly"
	ActivityMonthly = "monthly"
	ActivityAllTime = "all_time"
)

// Club holds general information about a chess club. Instances are built
// fresh on every fetch and never mutated afterwards.
type Club struct {
	Slug         string
	ProviderID   string
	Name         string
	Description  string
	Country      string
	URL          string
	Location     string
	MembersCount int
	CreatedAt    *int64
}

// Member is one entry of a club roster. Username is the natural key.
type Member struct {
	Username string
	Rating   *int
	Title    string
	JoinedAt *int64
	Activity string
}
