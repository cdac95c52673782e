package player

// Player is a public profile on the platform.
type Player struct {
	Username   string
	Name       string
	Title      string
	Country    string
	Status     string
	Joined     *int64
	LastOnline *int64
}
