package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/fishbot/core/telegram/keyboard"
	"github.com/m3rciful/fishbot/core/telegram/state"
)

const (
	callbackCart    = "cart"
	callbackMenu    = "menu"
	callbackPayment = "payment"

	menuColumns = 2
)

// showMenu renders the product grid with a cart footer button and moves the
// user to HANDLE_MENU.
func (b *Bot) showMenu(ctx context.Context, ev Event) (state.State, error) {
	products, err := b.api.GetAllProducts(ctx)
	if err != nil {
		return "", err
	}

	buttons := make([]keyboard.InlineBtn, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, keyboard.InlineBtn{Text: p.Name, Data: p.ID})
	}
	layout, err := keyboard.Grid(buttons, menuColumns,
		keyboard.InlineBtn{Text: "Корзина", Data: callbackCart})
	if err != nil {
		return "", err
	}

	if err := b.transport.SendMessage(ctx, ev.ChatID, "Какой товар вас интересует?", layout); err != nil {
		return "", err
	}
	return StateHandleMenu, nil
}

// handleMenu reacts to the product grid: the cart button opens the cart,
// anything else is treated as a product id and opens the product card.
func (b *Bot) handleMenu(ctx context.Context, ev Event) (state.State, error) {
	reply, _ := ev.Reply()
	if reply == callbackCart {
		return b.showCart(ctx, ev)
	}
	return b.showProduct(ctx, ev, reply)
}

// showProduct sends the photo card for one product with quantity buttons
// and deletes the triggering grid message.
func (b *Bot) showProduct(ctx context.Context, ev Event, productID string) (state.State, error) {
	imageID, err := b.api.GetProductMainImageID(ctx, productID)
	if err != nil {
		return "", err
	}
	imagePath, err := b.api.DownloadProductMainImage(ctx, imageID)
	if err != nil {
		return "", err
	}
	product, err := b.api.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("%s\n\n%s\n\n%s", product.Name, product.Description, product.Price)
	layout := [][]keyboard.InlineBtn{
		{
			{Text: "1 упаковка", Data: productID + "_1"},
			{Text: "3 упаковки", Data: productID + "_3"},
			{Text: "5 упаковок", Data: productID + "_5"},
		},
		{{Text: "Корзина", Data: callbackCart}},
		{{Text: "В меню", Data: callbackMenu}},
	}

	if err := b.transport.SendPhoto(ctx, ev.ChatID, imagePath, caption, layout); err != nil {
		return "", err
	}
	if err := b.transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		return "", err
	}
	return StateHandleDescription, nil
}

// showCart renders the cart snapshot with per-line removal buttons and a
// menu/payment footer.
func (b *Bot) showCart(ctx context.Context, ev Event) (state.State, error) {
	cart, err := b.api.GetCart(ctx, cartID(ev.ChatID))
	if err != nil {
		return "", err
	}

	var text strings.Builder
	buttons := make([]keyboard.InlineBtn, 0, len(cart.Items))
	for _, item := range cart.Items {
		fmt.Fprintf(&text, "%s\n%s\n%s за упаковку\n%d упаковок в корзине на сумму %s\n\n",
			item.Name, item.Description, item.UnitPrice, item.Quantity, item.Total)
		buttons = append(buttons, keyboard.InlineBtn{
			Text: "Убрать из корзины " + item.Name,
			Data: item.ID,
		})
	}
	fmt.Fprintf(&text, "Итого: %s", cart.Total)

	layout, err := keyboard.Grid(buttons, 1,
		keyboard.InlineBtn{Text: "В меню", Data: callbackMenu},
		keyboard.InlineBtn{Text: "Оплата", Data: callbackPayment})
	if err != nil {
		return "", err
	}

	if err := b.transport.SendMessage(ctx, ev.ChatID, text.String(), layout); err != nil {
		return "", err
	}
	return StateHandleCart, nil
}

// handleDescription reacts to the product card: navigation buttons, or a
// "<product_id>_<qty>" quantity choice that adds the line to the cart.
func (b *Bot) handleDescription(ctx context.Context, ev Event) (state.State, error) {
	reply, _ := ev.Reply()
	switch reply {
	case callbackMenu:
		return b.showMenu(ctx, ev)
	case callbackCart:
		return b.showCart(ctx, ev)
	}

	productID, quantity, err := parseQuantityChoice(reply)
	if err != nil {
		return "", err
	}
	if err := b.api.AddCartItem(ctx, cartID(ev.ChatID), productID, quantity); err != nil {
		return "", err
	}
	return StateHandleDescription, nil
}

// handleCart reacts to the cart view: navigation, payment, or a line id to
// remove from the cart.
func (b *Bot) handleCart(ctx context.Context, ev Event) (state.State, error) {
	reply, _ := ev.Reply()
	switch reply {
	case callbackMenu:
		return b.showMenu(ctx, ev)
	case callbackPayment:
		prompt := "Напишите, пожалуйста, вашу электронную почту"
		if err := b.transport.SendMessage(ctx, ev.ChatID, prompt, nil); err != nil {
			return "", err
		}
		return StateWaitingEmail, nil
	}

	if err := b.api.RemoveCartItem(ctx, cartID(ev.ChatID), reply); err != nil {
		return "", err
	}
	return StateHandleCart, nil
}

// waitingEmail validates the typed email, registers the customer, and
// returns the user to the menu. Invalid input re-prompts without leaving
// the state.
func (b *Bot) waitingEmail(ctx context.Context, ev Event) (state.State, error) {
	reply, _ := ev.Reply()
	if !ValidEmail(reply) {
		errText := "Введена некорректная почта. Попробуйте ещё раз."
		if err := b.transport.SendMessage(ctx, ev.ChatID, errText, nil); err != nil {
			return "", err
		}
		return StateWaitingEmail, nil
	}

	if err := b.api.CreateCustomer(ctx, reply, ev.UserName); err != nil {
		return "", err
	}
	if err := b.transport.SendMessage(ctx, ev.ChatID, "Ваша почта: "+reply, nil); err != nil {
		return "", err
	}
	return StateMenu, nil
}

// parseQuantityChoice splits a "<product_id>_<qty>" callback payload.
// Product ids are UUIDs and never contain underscores themselves.
func parseQuantityChoice(payload string) (string, int, error) {
	idx := strings.LastIndex(payload, "_")
	if idx <= 0 || idx == len(payload)-1 {
		return "", 0, fmt.Errorf("bot: malformed quantity payload %q", payload)
	}
	quantity, err := strconv.Atoi(payload[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("bot: malformed quantity payload %q: %w", payload, err)
	}
	return payload[:idx], quantity, nil
}
