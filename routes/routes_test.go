package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"restaurant-api/audit"
	"restaurant-api/catalog"
	"restaurant-api/handlers"
	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/notify"
	"restaurant-api/orders"
	"restaurant-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sessionA = "11111111-1111-4111-8111-111111111111"
	sessionB = "22222222-2222-4222-8222-222222222222"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubNotifier struct {
	ok   bool
	sent []models.Order
}

func (s *stubNotifier) SendOrder(_ context.Context, o models.Order) bool {
	s.sent = append(s.sent, o)
	return s.ok
}

type stubTester struct{ ok bool }

func (s stubTester) TestConnection(context.Context) bool { return s.ok }

type testEnv struct {
	router   *gin.Engine
	backend  *storage.Memory
	ledger   *orders.Ledger
	notifier *stubNotifier
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	backend := storage.NewMemory()
	now := func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	auth, err := middleware.NewAuth("admin", "admin123", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	notifier := &stubNotifier{ok: true}
	ledger := orders.NewLedger(backend, orders.WithClock(now))
	h := &handlers.Handler{
		Storage:       backend,
		Catalog:       catalog.NewService(catalog.NewLocalRepository(backend), nil),
		Ledger:        ledger,
		Checkout:      orders.NewCheckout(ledger, notifier, now, nil),
		Settings:      notify.NewSettingsStore(backend, models.TelegramSettings{}, nil),
		Telegram:      stubTester{ok: true},
		Audit:         audit.NewRecorder(audit.NewStorageLog(backend, 0), nil),
		Auth:          auth,
		WhatsAppPhone: "+20 100 000 0000",
	}

	r := gin.New()
	SetupRoutes(r, h)
	return &testEnv{router: r, backend: backend, ledger: ledger, notifier: notifier}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) map[string]string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "admin123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

func session(id string) map[string]string {
	return map[string]string{middleware.SessionHeader: id}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type cartBody struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice int64             `json:"totalPrice"`
}

type orderBody struct {
	Order     models.Order `json:"order"`
	Delivered bool         `json:"delivered"`
}

func (e *testEnv) fillCart(t *testing.T, sess string, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		w := e.do(t, http.MethodPost, "/api/cart/items", gin.H{"id": id}, session(sess))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}

func (e *testEnv) checkout(t *testing.T, sess, name string) models.Order {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/checkout",
		gin.H{"name": name, "phone": "+20 100 123 4567", "address": "Cairo"}, session(sess))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body orderBody
	decode(t, w, &body)
	return body.Order
}

func TestHealth(t *testing.T) {
	e := setup(t)
	w := e.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMenu(t *testing.T) {
	e := setup(t)

	var body struct {
		Count int               `json:"count"`
		Menu  []models.MenuItem `json:"menu"`
	}
	w := e.do(t, http.MethodGet, "/api/menu", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, 3, body.Count)

	w = e.do(t, http.MethodGet, "/api/menu?popular=true", nil, nil)
	decode(t, w, &body)
	assert.Equal(t, 2, body.Count)

	w = e.do(t, http.MethodGet, "/api/menu?category="+url.QueryEscape("الحلويات"), nil, nil)
	decode(t, w, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "حلويات شرقية", body.Menu[0].Name)

	w = e.do(t, http.MethodGet, "/api/categories", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "الأطباق الرئيسية")
}

func TestCart_Flow(t *testing.T) {
	e := setup(t)
	e.fillCart(t, sessionA, 1, 1, 3)

	var body cartBody
	w := e.do(t, http.MethodGet, "/api/cart", nil, session(sessionA))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sessionA, w.Header().Get(middleware.SessionHeader))
	decode(t, w, &body)
	require.Len(t, body.Items, 2)
	assert.Equal(t, 3, body.TotalItems)
	assert.Equal(t, int64(720*2+300), body.TotalPrice)

	w = e.do(t, http.MethodPut, "/api/cart/items/1", gin.H{"quantity": 5}, session(sessionA))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, 6, body.TotalItems)

	w = e.do(t, http.MethodPut, "/api/cart/items/3", gin.H{"quantity": 0}, session(sessionA))
	decode(t, w, &body)
	require.Len(t, body.Items, 1)

	w = e.do(t, http.MethodDelete, "/api/cart/items/1", nil, session(sessionA))
	decode(t, w, &body)
	assert.Empty(t, body.Items)
	assert.Equal(t, int64(0), body.TotalPrice)

	e.fillCart(t, sessionA, 2)
	w = e.do(t, http.MethodDelete, "/api/cart", nil, session(sessionA))
	decode(t, w, &body)
	assert.Equal(t, 0, body.TotalItems)
}

func TestCart_BadRequests(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/api/cart/items", gin.H{"id": 99}, session(sessionA))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPost, "/api/cart/items", gin.H{}, session(sessionA))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPut, "/api/cart/items/abc", gin.H{"quantity": 1}, session(sessionA))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPut, "/api/cart/items/1", gin.H{}, session(sessionA))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	e := setup(t)
	e.fillCart(t, sessionA, 1)

	var body cartBody
	w := e.do(t, http.MethodGet, "/api/cart", nil, session(sessionB))
	decode(t, w, &body)
	assert.Empty(t, body.Items)

	w = e.do(t, http.MethodGet, "/api/cart", nil, nil)
	assert.NotEmpty(t, w.Header().Get(middleware.SessionHeader))
	decode(t, w, &body)
	assert.Empty(t, body.Items)
}

func TestCart_UnreadableDataStartsOver(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.backend.Set(context.Background(), "cart:"+sessionA, "{broken"))

	var body cartBody
	w := e.do(t, http.MethodGet, "/api/cart", nil, session(sessionA))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Empty(t, body.Items)

	e.fillCart(t, sessionA, 2)
	w = e.do(t, http.MethodGet, "/api/cart", nil, session(sessionA))
	decode(t, w, &body)
	assert.Len(t, body.Items, 1)
}

func TestCheckout(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/api/checkout",
		gin.H{"name": "Ali", "phone": "1", "address": "x"}, session(sessionA))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, e.ledger.All(context.Background()))

	e.fillCart(t, sessionA, 1, 3)
	w = e.do(t, http.MethodPost, "/api/checkout", gin.H{"name": "Ali"}, session(sessionA))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	order := e.checkout(t, sessionA, "Ali")
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(1020), order.TotalPrice)
	assert.Equal(t, "2025/03/10 12:00:00", order.OrderDate)
	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, order.ID, e.notifier.sent[0].ID)

	var body cartBody
	w = e.do(t, http.MethodGet, "/api/cart", nil, session(sessionA))
	decode(t, w, &body)
	assert.Empty(t, body.Items)
	assert.Len(t, e.ledger.All(context.Background()), 1)
}

func TestCheckout_NotificationFailureStillStores(t *testing.T) {
	e := setup(t)
	e.notifier.ok = false
	e.fillCart(t, sessionA, 2)

	w := e.do(t, http.MethodPost, "/api/checkout",
		gin.H{"name": "Mona", "phone": "0100", "address": "Giza"}, session(sessionA))
	require.Equal(t, http.StatusCreated, w.Code)
	var body orderBody
	decode(t, w, &body)
	assert.False(t, body.Delivered)
	assert.NotNil(t, e.ledger.ByID(context.Background(), body.Order.ID))

	var cb cartBody
	w = e.do(t, http.MethodGet, "/api/cart", nil, session(sessionA))
	decode(t, w, &cb)
	assert.Empty(t, cb.Items)
}

func TestCheckout_WhatsApp(t *testing.T) {
	e := setup(t)
	e.fillCart(t, sessionA, 3)

	w := e.do(t, http.MethodPost, "/api/checkout/whatsapp",
		gin.H{"name": "Sara", "phone": "0100", "address": "Alex"}, session(sessionA))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		Order       models.Order `json:"order"`
		WhatsappURL string       `json:"whatsappUrl"`
	}
	decode(t, w, &body)
	assert.True(t, strings.HasPrefix(body.WhatsappURL, "https://wa.me/201000000000?text="))
	assert.Empty(t, e.notifier.sent)
	assert.Len(t, e.ledger.All(context.Background()), 1)
}

func TestAdmin_RequiresLogin(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodGet, "/api/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	auth := e.login(t)
	w = e.do(t, http.MethodGet, "/api/admin/orders", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/logout", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodGet, "/api/admin/orders", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_Orders(t *testing.T) {
	e := setup(t)
	auth := e.login(t)

	e.fillCart(t, sessionA, 1)
	first := e.checkout(t, sessionA, "Ali")
	e.fillCart(t, sessionB, 3)
	second := e.checkout(t, sessionB, "Mona")

	var list struct {
		Count  int            `json:"count"`
		Orders []models.Order `json:"orders"`
	}
	w := e.do(t, http.MethodGet, "/api/admin/orders", nil, auth)
	decode(t, w, &list)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, second.ID, list.Orders[0].ID)

	w = e.do(t, http.MethodGet, "/api/admin/orders?q=mona", nil, auth)
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, second.ID, list.Orders[0].ID)

	w = e.do(t, http.MethodGet, "/api/admin/orders?status=shipped", nil, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/orders/"+first.ID, nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodGet, "/api/admin/orders/order_missing", nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// status changes
	w = e.do(t, http.MethodPut, "/api/admin/orders/"+first.ID+"/status",
		gin.H{"status": "delivered", "notes": "on time"}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = e.do(t, http.MethodPut, "/api/admin/orders/"+first.ID+"/status", gin.H{"status": "shipped"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(t, http.MethodPut, "/api/admin/orders/order_missing/status", gin.H{"status": "ready"}, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/orders?status=delivered", nil, auth)
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "on time", list.Orders[0].Notes)

	var stats orders.Stats
	w = e.do(t, http.MethodGet, "/api/admin/orders/stats", nil, auth)
	decode(t, w, &stats)
	assert.Equal(t, orders.Stats{
		TotalOrders:     2,
		PendingOrders:   1,
		CompletedOrders: 1,
		TotalRevenue:    720,
		TodayOrders:     2,
	}, stats)

	// delete
	w = e.do(t, http.MethodDelete, "/api/admin/orders/"+second.ID, nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodDelete, "/api/admin/orders/"+second.ID, nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var actions struct {
		Actions []models.AdminAction `json:"actions"`
	}
	w = e.do(t, http.MethodGet, "/api/admin/actions", nil, auth)
	decode(t, w, &actions)
	require.Len(t, actions.Actions, 2)
	assert.Equal(t, models.ActionDeleteOrder, actions.Actions[0].ActionType)
	assert.Equal(t, models.ActionUpdateOrderStatus, actions.Actions[1].ActionType)
	assert.Equal(t, first.ID, actions.Actions[1].TargetItem)
}

func TestAdmin_Menu(t *testing.T) {
	e := setup(t)
	auth := e.login(t)

	w := e.do(t, http.MethodPost, "/api/admin/menu", gin.H{"name": "فول"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	dish := gin.H{"name": "كشري", "description": "كشري مصري", "price": "95", "category": "الأطباق العربية"}
	w = e.do(t, http.MethodPost, "/api/admin/menu", dish, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Item models.MenuItem `json:"item"`
	}
	decode(t, w, &created)
	assert.Equal(t, "95 جنيه مصري", created.Item.Price)

	w = e.do(t, http.MethodPost, "/api/admin/menu", dish, auth)
	assert.Equal(t, http.StatusConflict, w.Code)

	id := created.Item.ID
	path := "/api/admin/menu/" + jsonNumber(id)
	w = e.do(t, http.MethodPut, path, gin.H{"isPopular": true}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var menu struct {
		Count int               `json:"count"`
		Menu  []models.MenuItem `json:"menu"`
	}
	w = e.do(t, http.MethodGet, "/api/menu?popular=true", nil, nil)
	decode(t, w, &menu)
	assert.Equal(t, 3, menu.Count)

	w = e.do(t, http.MethodDelete, path, nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodDelete, path, nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(t, http.MethodPut, path, gin.H{"name": "x"}, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/menu", nil, auth)
	decode(t, w, &menu)
	assert.Equal(t, 3, menu.Count)
}

func TestAdmin_Categories(t *testing.T) {
	e := setup(t)
	auth := e.login(t)

	w := e.do(t, http.MethodPost, "/api/admin/categories", gin.H{"name": "مشروبات"}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Category models.Category `json:"category"`
	}
	decode(t, w, &created)

	path := "/api/admin/categories/" + jsonNumber(created.Category.ID)
	w = e.do(t, http.MethodPut, path, gin.H{"description": "باردة"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var cats struct {
		Count int `json:"count"`
	}
	w = e.do(t, http.MethodGet, "/api/admin/categories", nil, auth)
	decode(t, w, &cats)
	assert.Equal(t, 4, cats.Count)

	w = e.do(t, http.MethodDelete, path, nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodDelete, "/api/admin/categories/abc", nil, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_TelegramSettings(t *testing.T) {
	e := setup(t)
	auth := e.login(t)

	var got struct {
		Settings   models.TelegramSettings `json:"settings"`
		Configured bool                    `json:"configured"`
	}
	w := e.do(t, http.MethodGet, "/api/admin/settings/telegram", nil, auth)
	decode(t, w, &got)
	assert.False(t, got.Configured)

	w = e.do(t, http.MethodPut, "/api/admin/settings/telegram",
		gin.H{"botToken": " 123456:ABCDEF ", "chatId": "-100"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/settings/telegram", nil, auth)
	decode(t, w, &got)
	assert.True(t, got.Configured)
	assert.Equal(t, "-100", got.Settings.ChatID)
	assert.NotContains(t, got.Settings.BotToken, "ABCD")

	w = e.do(t, http.MethodPost, "/api/admin/settings/telegram/test", nil, auth)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestAdmin_Statuses(t *testing.T) {
	e := setup(t)
	w := e.do(t, http.MethodGet, "/api/admin/statuses", nil, e.login(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "في الانتظار")
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
