package plex

// MediaContainer is the root element returned by /status/sessions.
// The size attribute carries the server's own count of active sessions.
type MediaContainer struct {
	Size   int     `xml:"size,attr"`
	Videos []Video `xml:"Video"`
	Tracks []Video `xml:"Track"`
}

// Video is a single playback element inside a MediaContainer. Track
// elements (music) share the same attributes and reuse this type.
type Video struct {
	Title            string `xml:"title,attr"`
	GrandparentTitle string `xml:"grandparentTitle,attr"`
	ParentTitle      string `xml:"parentTitle,attr"`
	Type             string `xml:"type,attr"`
	Library          string `xml:"librarySectionTitle,attr"`
	User             User   `xml:"User"`
	Player           Player `xml:"Player"`
}

// User is the account streaming a session.
type User struct {
	Title string `xml:"title,attr"`
}

// Player describes the device a session is playing on.
type Player struct {
	Title   string `xml:"title,attr"`
	Product string `xml:"product,attr"`
	Device  string `xml:"device,attr"`
	Address string `xml:"address,attr"`
	State   string `xml:"state,attr"`
	Local   bool   `xml:"local,attr"`
}

// Session is a flattened view of an active playback session. It is the
// session shape the rest of the application works with, regardless of
// whether the data came from Plex directly or from Tautulli.
type Session struct {
	User             string
	Title            string
	GrandparentTitle string
	ParentTitle      string
	MediaType        string
	Library          string
	Player           string
	Product          string
	Address          string
	Local            bool
	State            string
}

// SessionList holds the sessions from one poll together with the
// server-reported count.
type SessionList struct {
	Count    int
	Sessions []Session
}

// DisplayTitle renders an episode as "Show - Season - Episode" and
// anything else as its plain title.
func (s Session) DisplayTitle() string {
	if s.GrandparentTitle != "" {
		return s.GrandparentTitle + " - " + s.ParentTitle + " - " + s.Title
	}
	return s.Title
}

// IsPlaying reports whether the session is actively playing rather than
// paused or buffering. Sessions without a player state count as playing.
func (s Session) IsPlaying() bool {
	return s.State == "" || s.State == "playing"
}

func (v Video) toSession() Session {
	return Session{
		User:             v.User.Title,
		Title:            v.Title,
		GrandparentTitle: v.GrandparentTitle,
		ParentTitle:      v.ParentTitle,
		MediaType:        v.Type,
		Library:          v.Library,
		Player:           v.Player.Title,
		Product:          v.Player.Product,
		Address:          v.Player.Address,
		Local:            v.Player.Local,
		State:            v.Player.State,
	}
}
