// Package router is the data-loading host the UI runs on.
//
// Routes declare loaders (reads) and actions (writes). A navigation runs every
// loader of the matched route chain and commits the result, together with the
// history entry, in one Update call. Submissions run the leaf route's action and
// either follow a Redirect or revalidate the current location.
//
// A Router is owned by the bubbletea update loop: its methods must only be called
// from Update. The tea.Cmds it returns run loaders and actions on other goroutines
// and report back through LoadedMsg and ActionMsg, which Update either commits or,
// when a newer navigation has started since, discards.
package router
