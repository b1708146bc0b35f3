// Package bot implements the conversation state machine of the shop bot.
//
// Each incoming user action is dispatched to the handler of the user's
// current state; the handler performs its side effects through the commerce
// client and the chat transport and returns the next state, which is written
// back to the session store. A failed handler writes nothing, leaving the
// user in their previous state; /start resets any user to the menu.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m3rciful/fishbot/core/logger"
	"github.com/m3rciful/fishbot/core/telegram/state"
	"github.com/m3rciful/fishbot/shop/moltin"

	"log/slog"
)

// resetCommand forces the conversation back to the menu from any state.
const resetCommand = "/start"

// CommerceClient is the part of the catalog/cart API the handlers use.
// *moltin.Client satisfies it.
type CommerceClient interface {
	GetAllProducts(ctx context.Context) ([]moltin.Product, error)
	GetProduct(ctx context.Context, productID string) (moltin.Product, error)
	GetProductMainImageID(ctx context.Context, productID string) (string, error)
	DownloadProductMainImage(ctx context.Context, fileID string) (string, error)
	AddCartItem(ctx context.Context, cartID, productID string, quantity int) error
	GetCart(ctx context.Context, cartID string) (moltin.Cart, error)
	RemoveCartItem(ctx context.Context, cartID, itemID string) error
	CreateCustomer(ctx context.Context, email, name string) error
}

type handlerFunc func(ctx context.Context, ev Event) (state.State, error)

// Bot is the conversation state machine with its collaborators injected.
type Bot struct {
	api       CommerceClient
	sessions  state.Manager
	transport Transport
	handlers  map[state.State]handlerFunc
}

// New constructs the state machine. All dependencies are required.
func New(api CommerceClient, sessions state.Manager, transport Transport) *Bot {
	b := &Bot{
		api:       api,
		sessions:  sessions,
		transport: transport,
	}
	b.handlers = map[state.State]handlerFunc{
		StateMenu:              b.showMenu,
		StateHandleMenu:        b.handleMenu,
		StateHandleDescription: b.handleDescription,
		StateHandleCart:        b.handleCart,
		StateWaitingEmail:      b.waitingEmail,
	}
	return b
}

// HandleUpdate resolves the user's current state, runs the matching handler,
// and persists the state it returns. Handler failures are logged and leave
// the stored state untouched; they are not surfaced to the user.
func (b *Bot) HandleUpdate(ctx context.Context, ev Event) error {
	reply, ok := ev.Reply()
	if !ok {
		// Neither text nor callback; nothing to react to.
		return nil
	}

	current := StateMenu
	if reply != resetCommand {
		stored, found, err := b.sessions.Get(ctx, ev.ChatID)
		if err != nil {
			logger.FSM.LogAttrs(ctx, slog.LevelError, "session read failed",
				slog.String("event", "session.get"),
				slog.Int64("chat_id", ev.ChatID),
				slog.String("err", err.Error()),
			)
			return nil
		}
		if found {
			current = stored
		}
	}

	handler, ok := b.handlers[current]
	if !ok {
		// Keep serving other users; this one recovers via /start.
		err := fmt.Errorf("%w: %q", ErrUnknownState, current)
		logger.FSM.LogAttrs(ctx, slog.LevelError, "unknown state",
			slog.String("event", "dispatch.unknown_state"),
			slog.Int64("chat_id", ev.ChatID),
			slog.String("state", string(current)),
		)
		return err
	}

	ctx = logger.WithHandler(ctx, string(current))
	next, err := handler(ctx, ev)
	if err != nil {
		var apiErr *moltin.APIError
		attrs := []slog.Attr{
			slog.String("event", "handler.failed"),
			slog.Int64("chat_id", ev.ChatID),
			slog.String("state", string(current)),
			slog.String("payload", logger.SanitizeLimit(reply, 128)),
			slog.String("err", err.Error()),
		}
		if errors.As(err, &apiErr) {
			attrs = append(attrs, slog.Int("api_status", apiErr.Status))
		}
		logger.FSM.LogAttrs(ctx, slog.LevelError, "handler failed", attrs...)
		return nil
	}

	if err := b.sessions.Set(ctx, ev.ChatID, next); err != nil {
		logger.FSM.LogAttrs(ctx, slog.LevelError, "session write failed",
			slog.String("event", "session.set"),
			slog.Int64("chat_id", ev.ChatID),
			slog.String("err", err.Error()),
		)
		return nil
	}

	logger.FSM.LogAttrs(ctx, slog.LevelDebug, "transition",
		slog.String("event", "transition"),
		slog.Int64("chat_id", ev.ChatID),
		slog.String("from", string(current)),
		slog.String("to", string(next)),
	)
	return nil
}

// cartID maps a chat to its cart. The acting user's chat id is the
// canonical cart key.
func cartID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
