package caliper

import (
	"errors"
	"fmt"
	"strings"
)

// Action is a canonical action token such as Viewed or NavigatedTo.
type Action string

const (
	ActionBookmarked  Action = "Bookmarked"
	ActionHighlighted Action = "Highlighted"
	ActionShared      Action = "Shared"
	ActionTagged      Action = "Tagged"

	ActionStarted   Action = "Started"
	ActionPaused    Action = "Paused"
	ActionResumed   Action = "Resumed"
	ActionRestarted Action = "Restarted"
	ActionReset     Action = "Reset"
	ActionSubmitted Action = "Submitted"
	ActionSkipped   Action = "Skipped"
	ActionCompleted Action = "Completed"

	ActionActivated   Action = "Activated"
	ActionDeactivated Action = "Deactivated"
	ActionReviewed    Action = "Reviewed"

	ActionSubscribed   Action = "Subscribed"
	ActionUnsubscribed Action = "Unsubscribed"

	ActionGraded Action = "Graded"

	ActionEnded                    Action = "Ended"
	ActionJumpedTo                 Action = "JumpedTo"
	ActionForwardedTo              Action = "ForwardedTo"
	ActionChangedSpeed             Action = "ChangedSpeed"
	ActionChangedVolume            Action = "ChangedVolume"
	ActionChangedResolution        Action = "ChangedResolution"
	ActionEnabledClosedCaptioning  Action = "EnabledClosedCaptioning"
	ActionDisabledClosedCaptioning Action = "DisabledClosedCaptioning"
	ActionEnteredFullScreen        Action = "EnteredFullScreen"
	ActionExitedFullScreen         Action = "ExitedFullScreen"
	ActionMuted                    Action = "Muted"
	ActionUnmuted                  Action = "Unmuted"
	ActionOpenedPopout             Action = "OpenedPopout"
	ActionClosedPopout             Action = "ClosedPopout"

	ActionPosted         Action = "Posted"
	ActionMarkedAsRead   Action = "MarkedAsRead"
	ActionMarkedAsUnread Action = "MarkedAsUnread"

	ActionNavigatedTo Action = "NavigatedTo"
	ActionSearched    Action = "Searched"
	ActionViewed      Action = "Viewed"

	ActionArchived    Action = "Archived"
	ActionCopied      Action = "Copied"
	ActionCreated     Action = "Created"
	ActionDeleted     Action = "Deleted"
	ActionDescribed   Action = "Described"
	ActionDownloaded  Action = "Downloaded"
	ActionModified    Action = "Modified"
	ActionPrinted     Action = "Printed"
	ActionPublished   Action = "Published"
	ActionRestored    Action = "Restored"
	ActionRetrieved   Action = "Retrieved"
	ActionSaved       Action = "Saved"
	ActionUnpublished Action = "Unpublished"
	ActionUploaded    Action = "Uploaded"

	ActionLoggedIn  Action = "LoggedIn"
	ActionLoggedOut Action = "LoggedOut"
	ActionTimedOut  Action = "TimedOut"

	ActionLaunched Action = "Launched"
	ActionReturned Action = "Returned"
	ActionUsed     Action = "Used"
)

// actionDef binds a token to its canonical key and any profile aliases.
type actionDef struct {
	action  Action
	key     string
	aliases []string
}

var actionDefs = []actionDef{
	{ActionBookmarked, "annotation.bookmarked", nil},
	{ActionHighlighted, "annotation.highlighted", nil},
	{ActionShared, "annotation.shared", nil},
	{ActionTagged, "annotation.tagged", nil},

	{ActionStarted, "assessment.started", []string{"assessment.item.started", "assignable.started", "media.started"}},
	{ActionPaused, "assessment.paused", []string{"media.paused"}},
	{ActionResumed, "assessment.resumed", []string{"media.resumed"}},
	{ActionRestarted, "assessment.restarted", []string{"media.restarted"}},
	{ActionReset, "assessment.reset", nil},
	{ActionSubmitted, "assessment.submitted", []string{"assignable.submitted"}},
	{ActionSkipped, "assessment.item.skipped", nil},
	{ActionCompleted, "assessment.item.completed", []string{"assignable.completed"}},

	{ActionActivated, "assignable.activated", nil},
	{ActionDeactivated, "assignable.deactivated", nil},
	{ActionReviewed, "assignable.reviewed", nil},

	{ActionSubscribed, "forum.subscribed", nil},
	{ActionUnsubscribed, "forum.unsubscribed", nil},

	{ActionGraded, "grade.graded", nil},

	{ActionEnded, "media.ended", nil},
	{ActionJumpedTo, "media.jumpedTo", nil},
	{ActionForwardedTo, "media.forwardedTo", nil},
	{ActionChangedSpeed, "media.changedSpeed", nil},
	{ActionChangedVolume, "media.changedVolume", nil},
	{ActionChangedResolution, "media.changedResolution", nil},
	{ActionEnabledClosedCaptioning, "media.enabledClosedCaptioning", nil},
	{ActionDisabledClosedCaptioning, "media.disabledClosedCaptioning", nil},
	{ActionEnteredFullScreen, "media.enteredFullScreen", nil},
	{ActionExitedFullScreen, "media.exitedFullScreen", nil},
	{ActionMuted, "media.muted", nil},
	{ActionUnmuted, "media.unmuted", nil},
	{ActionOpenedPopout, "media.openedPopout", nil},
	{ActionClosedPopout, "media.closedPopout", nil},

	{ActionPosted, "message.posted", nil},
	{ActionMarkedAsRead, "message.markedAsRead", []string{"thread.markedAsRead"}},
	{ActionMarkedAsUnread, "message.markedAsUnread", []string{"thread.markedAsUnread"}},

	{ActionNavigatedTo, "navigation.navigatedTo", nil},
	{ActionSearched, "reading.searched", nil},
	{ActionViewed, "reading.viewed", []string{"item.viewed", "view.viewed"}},

	{ActionArchived, "item.archived", nil},
	{ActionCopied, "item.copied", nil},
	{ActionCreated, "item.created", nil},
	{ActionDeleted, "item.deleted", nil},
	{ActionDescribed, "item.described", nil},
	{ActionDownloaded, "item.downloaded", nil},
	{ActionModified, "item.modified", nil},
	{ActionPrinted, "item.printed", nil},
	{ActionPublished, "item.published", nil},
	{ActionRestored, "item.restored", nil},
	{ActionRetrieved, "item.retrieved", nil},
	{ActionSaved, "item.saved", nil},
	{ActionUnpublished, "item.unpublished", nil},
	{ActionUploaded, "item.uploaded", nil},

	{ActionLoggedIn, "session.loggedIn", nil},
	{ActionLoggedOut, "session.loggedOut", nil},
	{ActionTimedOut, "session.timedOut", nil},

	{ActionLaunched, "tool.launched", nil},
	{ActionReturned, "tool.returned", nil},
	{ActionUsed, "tool.used", nil},
}

var (
	actionKeys   = make(map[Action]string, len(actionDefs))
	actionLookup = make(map[string]Action, len(actionDefs)*2)
)

func init() {
	for _, def := range actionDefs {
		if _, dup := actionKeys[def.action]; dup {
			panic("caliper: duplicate action " + string(def.action))
		}
		actionKeys[def.action] = def.key
		for _, key := range append([]string{def.key}, def.aliases...) {
			if prev, dup := actionLookup[key]; dup {
				panic(fmt.Sprintf("caliper: action key %q bound to both %s and %s", key, prev, def.action))
			}
			actionLookup[key] = def.action
		}
	}
}

// ErrUnknownAction is the sentinel matched by UnknownActionError.
var ErrUnknownAction = errors.New("unrecognized action key")

// UnknownActionError reports a caller-supplied action key that is not
// registered.
type UnknownActionError struct {
	Key string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unrecognized action key: %q", e.Key)
}

func (e *UnknownActionError) Unwrap() error { return ErrUnknownAction }

// URI returns the canonical action IRI. It panics for an unregistered token.
func (a Action) URI() string {
	if _, ok := actionKeys[a]; !ok {
		panic("caliper: unregistered action " + string(a))
	}
	return ActionNamespace + string(a)
}

// Key returns the canonical short key, or "" for an unregistered token.
func (a Action) Key() string { return actionKeys[a] }

// IsValid reports whether a is a registered action token.
func (a Action) IsValid() bool {
	_, ok := actionKeys[a]
	return ok
}

// String returns the token.
func (a Action) String() string { return string(a) }

// ActionForKey resolves a short action key, canonical or alias.
func ActionForKey(key string) (Action, bool) {
	a, ok := actionLookup[key]
	return a, ok
}

// LookupAction resolves a short action key and reports unknown keys as
// *UnknownActionError.
func LookupAction(key string) (Action, error) {
	a, ok := actionLookup[key]
	if !ok {
		return "", &UnknownActionError{Key: key}
	}
	return a, nil
}

// ParseAction resolves a token name, a full action IRI, or a short key.
func ParseAction(s string) (Action, error) {
	if a := Action(s); a.IsValid() {
		return a, nil
	}
	if rest, ok := strings.CutPrefix(s, ActionNamespace); ok {
		if a := Action(rest); a.IsValid() {
			return a, nil
		}
	}
	return LookupAction(s)
}

// Actions returns every registered action in registry order.
func Actions() []Action {
	out := make([]Action, len(actionDefs))
	for i, def := range actionDefs {
		out[i] = def.action
	}
	return out
}

// ActionKeys returns every key, canonical and alias, that resolves to a.
func ActionKeys(a Action) []string {
	for _, def := range actionDefs {
		if def.action == a {
			return append([]string{def.key}, def.aliases...)
		}
	}
	return nil
}
