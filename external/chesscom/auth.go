package chesscom

// Credentials carries the session cookies and extra request headers that
// unlock the web-API endpoints (tournament listings, leaderboards).
type Credentials struct {
	Cookies map[string]string
	Headers map[string]string
}

// AuthProvider supplies web-session credentials. The public REST API works
// without any; an unauthenticated client simply gets 401s from the web
// endpoints, which surface as usecase.ErrAuthRequired.
type AuthProvider interface {
	Authenticated() bool
	Credentials() Credentials
}

// StaticAuth holds fixed credentials, typically read from the environment.
type StaticAuth struct {
	creds Credentials
}

func NewStaticAuth(cookies, headers map[string]string) *StaticAuth {
	return &StaticAuth{creds: Credentials{Cookies: cookies, Headers: headers}}
}

func (a *StaticAuth) Authenticated() bool {
	return len(a.creds.Cookies) > 0 || len(a.creds.Headers) > 0
}

func (a *StaticAuth) Credentials() Credentials {
	return a.creds
}
