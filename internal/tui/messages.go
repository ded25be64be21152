package tui

// persistedTabMsg reports a tab selection written by another session.
type persistedTabMsg struct{ name string }

type copyDoneMsg struct {
	title string
	err   error
}

type statusMsg struct{ note string }
