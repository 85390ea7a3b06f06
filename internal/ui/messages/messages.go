package messages

import "github.com/snipted/snipterm/internal/api"

// View transition messages.
type (
	OpenSnippetMsg  struct{ ID int64 }
	OpenLoginMsg    struct{}
	OpenRegisterMsg struct{}
	OpenEditMsg     struct{ Snippet *api.Snippet }
	OpenUserMsg     struct{ UserID int64 }
)

// Data messages.
type (
	// AuthResolvedMsg is the bootstrap probe's answer. User is nil when
	// the session is absent or dead.
	AuthResolvedMsg struct {
		User *api.User
	}

	SnippetsLoadedMsg struct {
		Key      string
		Snippets []*api.Snippet
		Stale    bool
		Err      error
	}

	SnippetLoadedMsg struct {
		Snippet *api.Snippet
		Err     error
	}

	LoginResultMsg struct {
		User *api.User
		Err  error
	}

	RegisterResultMsg struct {
		User *api.User
		Err  error
	}

	LoggedOutMsg struct{}

	SnippetCreatedMsg struct {
		Snippet *api.Snippet
		Err     error
	}

	SnippetUpdatedMsg struct {
		Snippet *api.Snippet
		Err     error
	}

	SnippetDeletedMsg struct {
		SnippetID int64
		Err       error
	}

	LikeResultMsg struct {
		SnippetID int64
		Liked     bool
		Err       error
	}

	ProfileLoadedMsg struct {
		User     *api.User
		Snippets []*api.Snippet
		Err      error
	}

	// SessionExpiredMsg fires when a 401 arrives while the store thinks a
	// user is logged in.
	SessionExpiredMsg struct{}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
