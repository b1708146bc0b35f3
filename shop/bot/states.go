package bot

import (
	"errors"

	"github.com/m3rciful/fishbot/core/telegram/state"
)

// Conversation states. The raw tag values are persisted in the session
// store, so they must stay stable across deployments.
const (
	// StateMenu renders the product grid; the initial state.
	StateMenu state.State = "MENU"
	// StateHandleMenu reacts to product or cart selection from the grid.
	StateHandleMenu state.State = "HANDLE_MENU"
	// StateHandleDescription reacts to quantity choices on a product card.
	StateHandleDescription state.State = "HANDLE_DESCRIPTION"
	// StateHandleCart reacts to line removal, menu, and payment buttons.
	StateHandleCart state.State = "HANDLE_CART"
	// StateWaitingEmail collects the checkout email address.
	StateWaitingEmail state.State = "WAITING_EMAIL"
)

// ErrUnknownState indicates a stored state tag outside the recognized set:
// corrupted session data or a state-table mismatch after a deploy.
var ErrUnknownState = errors.New("bot: unknown conversation state")
