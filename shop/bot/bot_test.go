package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/fishbot/core/telegram/keyboard"
	"github.com/m3rciful/fishbot/core/telegram/state"
	"github.com/m3rciful/fishbot/shop/moltin"
)

type addCall struct {
	cartID    string
	productID string
	quantity  int
}

type removeCall struct {
	cartID string
	itemID string
}

type customerCall struct {
	email string
	name  string
}

type fakeAPI struct {
	failWith error

	products  []moltin.Product
	cart      moltin.Cart
	imageID   string
	imagePath string

	addCalls      []addCall
	removeCalls   []removeCall
	customerCalls []customerCall
}

func (f *fakeAPI) GetAllProducts(context.Context) ([]moltin.Product, error) {
	return f.products, f.failWith
}

func (f *fakeAPI) GetProduct(_ context.Context, productID string) (moltin.Product, error) {
	if f.failWith != nil {
		return moltin.Product{}, f.failWith
	}
	for _, p := range f.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return moltin.Product{}, &moltin.APIError{Status: 404, Body: "not found"}
}

func (f *fakeAPI) GetProductMainImageID(context.Context, string) (string, error) {
	return f.imageID, f.failWith
}

func (f *fakeAPI) DownloadProductMainImage(context.Context, string) (string, error) {
	return f.imagePath, f.failWith
}

func (f *fakeAPI) AddCartItem(_ context.Context, cartID, productID string, quantity int) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.addCalls = append(f.addCalls, addCall{cartID, productID, quantity})
	return nil
}

func (f *fakeAPI) GetCart(context.Context, string) (moltin.Cart, error) {
	return f.cart, f.failWith
}

func (f *fakeAPI) RemoveCartItem(_ context.Context, cartID, itemID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.removeCalls = append(f.removeCalls, removeCall{cartID, itemID})
	return nil
}

func (f *fakeAPI) CreateCustomer(_ context.Context, email, name string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.customerCalls = append(f.customerCalls, customerCall{email, name})
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
	layout [][]keyboard.InlineBtn
}

type sentPhoto struct {
	chatID  int64
	path    string
	caption string
	layout  [][]keyboard.InlineBtn
}

type fakeTransport struct {
	messages []sentMessage
	photos   []sentPhoto
	deleted  []int
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, layout [][]keyboard.InlineBtn) error {
	f.messages = append(f.messages, sentMessage{chatID, text, layout})
	return nil
}

func (f *fakeTransport) SendPhoto(_ context.Context, chatID int64, path, caption string, layout [][]keyboard.InlineBtn) error {
	f.photos = append(f.photos, sentPhoto{chatID, path, caption, layout})
	return nil
}

func (f *fakeTransport) EditMessage(context.Context, int64, int, string, [][]keyboard.InlineBtn) error {
	return nil
}

func (f *fakeTransport) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

const chat = int64(42)

func newTestBot(api *fakeAPI) (*Bot, *fakeTransport, state.Manager) {
	tr := &fakeTransport{}
	sessions := state.NewMemoryManager()
	return New(api, sessions, tr), tr, sessions
}

func catalog() *fakeAPI {
	return &fakeAPI{
		products: []moltin.Product{
			{ID: "p1", Name: "Сельдь", Description: "Атлантическая", Price: "$5.00"},
			{ID: "p2", Name: "Треска", Description: "Северная", Price: "$7.00"},
			{ID: "p3", Name: "Лосось", Description: "Дикий", Price: "$15.00"},
		},
		cart: moltin.Cart{
			Items: []moltin.CartItem{
				{ID: "line1", Name: "Сельдь", Description: "Атлантическая", UnitPrice: "$5.00", Quantity: 3, Total: "$15.00"},
			},
			Total: "$15.00",
		},
		imageID:   "img1",
		imagePath: "media/main_image_herring.jpg",
	}
}

func storedState(t *testing.T, sessions state.Manager) state.State {
	t.Helper()
	st, ok, err := sessions.Get(context.Background(), chat)
	require.NoError(t, err)
	require.True(t, ok, "expected a stored state")
	return st
}

func TestStartScenario(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Text: "/start"})
	require.NoError(t, err)

	require.Len(t, tr.messages, 1)
	msg := tr.messages[0]
	assert.Equal(t, chat, msg.chatID)
	assert.Equal(t, "Какой товар вас интересует?", msg.text)

	// Three products in two columns plus the cart footer row.
	require.Len(t, msg.layout, 3)
	assert.Len(t, msg.layout[0], 2)
	assert.Len(t, msg.layout[1], 1)
	require.Len(t, msg.layout[2], 1)
	assert.Equal(t, "cart", msg.layout[2][0].Data)

	assert.Equal(t, StateHandleMenu, storedState(t, sessions))
}

func TestStartForcesMenuFromAnyState(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())
	require.NoError(t, sessions.Set(context.Background(), chat, StateWaitingEmail))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Text: "/start"})
	require.NoError(t, err)

	require.Len(t, tr.messages, 1)
	assert.Equal(t, "Какой товар вас интересует?", tr.messages[0].text)
	assert.Equal(t, StateHandleMenu, storedState(t, sessions))
}

func TestMenuOpensProductCard(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleMenu))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, MessageID: 7, Callback: "p1"})
	require.NoError(t, err)

	require.Len(t, tr.photos, 1)
	photo := tr.photos[0]
	assert.Equal(t, "media/main_image_herring.jpg", photo.path)
	assert.Equal(t, "Сельдь\n\nАтлантическая\n\n$5.00", photo.caption)
	require.Len(t, photo.layout, 3)
	assert.Equal(t, "p1_1", photo.layout[0][0].Data)
	assert.Equal(t, "p1_3", photo.layout[0][1].Data)
	assert.Equal(t, "p1_5", photo.layout[0][2].Data)

	assert.Equal(t, []int{7}, tr.deleted)
	assert.Equal(t, StateHandleDescription, storedState(t, sessions))
}

func TestMenuOpensCart(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleMenu))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "cart"})
	require.NoError(t, err)

	require.Len(t, tr.messages, 1)
	msg := tr.messages[0]
	assert.Contains(t, msg.text, "Сельдь")
	assert.Contains(t, msg.text, "3 упаковок в корзине на сумму $15.00")
	assert.Contains(t, msg.text, "Итого: $15.00")

	// One removal row plus the menu/payment footer row.
	require.Len(t, msg.layout, 2)
	assert.Equal(t, "line1", msg.layout[0][0].Data)
	assert.Equal(t, "menu", msg.layout[1][0].Data)
	assert.Equal(t, "payment", msg.layout[1][1].Data)

	assert.Equal(t, StateHandleCart, storedState(t, sessions))
}

func TestAddToCart(t *testing.T) {
	api := catalog()
	b, _, sessions := newTestBot(api)
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleDescription))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "p1_3"})
	require.NoError(t, err)

	require.Len(t, api.addCalls, 1)
	assert.Equal(t, addCall{cartID: "42", productID: "p1", quantity: 3}, api.addCalls[0])
	assert.Equal(t, StateHandleDescription, storedState(t, sessions))
}

func TestDescriptionNavigation(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleDescription))

	require.NoError(t, b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "menu"}))
	assert.Equal(t, StateHandleMenu, storedState(t, sessions))
	require.Len(t, tr.messages, 1)

	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleDescription))
	require.NoError(t, b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "cart"}))
	assert.Equal(t, StateHandleCart, storedState(t, sessions))
}

func TestRemoveCartLine(t *testing.T) {
	api := catalog()
	b, _, sessions := newTestBot(api)
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleCart))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "line1"})
	require.NoError(t, err)

	require.Len(t, api.removeCalls, 1)
	assert.Equal(t, removeCall{cartID: "42", itemID: "line1"}, api.removeCalls[0])
	assert.Equal(t, StateHandleCart, storedState(t, sessions))
}

func TestPaymentPromptsForEmail(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleCart))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "payment"})
	require.NoError(t, err)

	require.Len(t, tr.messages, 1)
	assert.Equal(t, "Напишите, пожалуйста, вашу электронную почту", tr.messages[0].text)
	assert.Equal(t, StateWaitingEmail, storedState(t, sessions))
}

func TestEmailAccepted(t *testing.T) {
	api := catalog()
	b, tr, sessions := newTestBot(api)
	require.NoError(t, sessions.Set(context.Background(), chat, StateWaitingEmail))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Text: "a.b+c@example.co", UserName: "Иван Петров"})
	require.NoError(t, err)

	require.Len(t, api.customerCalls, 1)
	assert.Equal(t, customerCall{email: "a.b+c@example.co", name: "Иван Петров"}, api.customerCalls[0])
	require.Len(t, tr.messages, 1)
	assert.Equal(t, "Ваша почта: a.b+c@example.co", tr.messages[0].text)
	assert.Equal(t, StateMenu, storedState(t, sessions))
}

func TestEmailRejected(t *testing.T) {
	api := catalog()
	b, tr, sessions := newTestBot(api)
	require.NoError(t, sessions.Set(context.Background(), chat, StateWaitingEmail))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Text: "not-an-email"})
	require.NoError(t, err)

	assert.Empty(t, api.customerCalls)
	require.Len(t, tr.messages, 1)
	assert.Equal(t, "Введена некорректная почта. Попробуйте ещё раз.", tr.messages[0].text)
	assert.Equal(t, StateWaitingEmail, storedState(t, sessions))
}

func TestRemoteErrorLeavesStateUnchanged(t *testing.T) {
	api := catalog()
	api.failWith = &moltin.APIError{Status: 502, Body: "bad gateway"}
	b, tr, sessions := newTestBot(api)
	require.NoError(t, sessions.Set(context.Background(), chat, StateHandleMenu))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Callback: "cart"})
	require.NoError(t, err, "remote failures are swallowed at the dispatch boundary")

	assert.Empty(t, tr.messages)
	assert.Equal(t, StateHandleMenu, storedState(t, sessions))
}

func TestUnknownStoredState(t *testing.T) {
	b, _, sessions := newTestBot(catalog())
	require.NoError(t, sessions.Set(context.Background(), chat, "BOGUS"))

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat, Text: "hello"})
	require.ErrorIs(t, err, ErrUnknownState)
	assert.Equal(t, state.State("BOGUS"), storedState(t, sessions))
}

func TestEmptyEventIgnored(t *testing.T) {
	b, tr, sessions := newTestBot(catalog())

	err := b.HandleUpdate(context.Background(), Event{ChatID: chat})
	require.NoError(t, err)

	assert.Empty(t, tr.messages)
	_, ok, err := sessions.Get(context.Background(), chat)
	require.NoError(t, err)
	assert.False(t, ok, "no state should be written for an empty event")
}

// Every recognized state with a matching action lands on a state from its
// transition-table row, never an unlisted tag.
func TestTransitionsStayWithinTable(t *testing.T) {
	allowed := map[state.State]map[state.State]bool{
		StateMenu:              {StateHandleMenu: true},
		StateHandleMenu:        {StateHandleCart: true, StateHandleDescription: true},
		StateHandleDescription: {StateHandleMenu: true, StateHandleCart: true, StateHandleDescription: true},
		StateHandleCart:        {StateHandleMenu: true, StateWaitingEmail: true, StateHandleCart: true},
		StateWaitingEmail:      {StateMenu: true, StateWaitingEmail: true},
	}
	actions := map[state.State][]Event{
		StateMenu:              {{ChatID: chat, Text: "/start"}},
		StateHandleMenu:        {{ChatID: chat, Callback: "cart"}, {ChatID: chat, Callback: "p1"}},
		StateHandleDescription: {{ChatID: chat, Callback: "menu"}, {ChatID: chat, Callback: "cart"}, {ChatID: chat, Callback: "p1_5"}},
		StateHandleCart:        {{ChatID: chat, Callback: "menu"}, {ChatID: chat, Callback: "payment"}, {ChatID: chat, Callback: "line1"}},
		StateWaitingEmail:      {{ChatID: chat, Text: "user@example.com"}, {ChatID: chat, Text: "nope"}},
	}

	for from, events := range actions {
		for _, ev := range events {
			b, _, sessions := newTestBot(catalog())
			require.NoError(t, sessions.Set(context.Background(), chat, from))
			require.NoError(t, b.HandleUpdate(context.Background(), ev))
			to := storedState(t, sessions)
			assert.True(t, allowed[from][to], "transition %s -> %s not in table (event %+v)", from, to, ev)
		}
	}
}

func TestParseQuantityChoice(t *testing.T) {
	id, qty, err := parseQuantityChoice("550e8400-e29b-41d4-a716-446655440000_5")
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id)
	assert.Equal(t, 5, qty)

	for _, bad := range []string{"", "p1", "_3", "p1_", "p1_x"} {
		_, _, err := parseQuantityChoice(bad)
		assert.Error(t, err, "payload %q", bad)
	}
}
