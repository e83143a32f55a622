package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/infra/memory"
	"storefront-quiz-service/internal/render"
)

func TestStorefrontCommandFlow(t *testing.T) {
	server, _ := newTestServer(t, sampleProducts(), sampleQuestions())
	conn := dial(t, server, "/ws/storefront?clientId=c1")
	defer conn.Close()

	var session sessionPayload
	readNext(t, conn, "session", &session)
	if session.ClientID != "c1" {
		t.Fatalf("expected client id echoed, got %q", session.ClientID)
	}

	var view render.StorefrontView
	readNext(t, conn, "view", &view)
	if len(view.Products) != 2 {
		t.Fatalf("expected initial products, got %+v", view.Products)
	}

	send(t, conn, "addToCart", map[string]any{"productId": 2, "quantity": 3})
	readNext(t, conn, "view", &view)
	if view.Cart.ItemCount != 3 || view.Cart.Lines[0].Label != "Lamp x3" {
		t.Fatalf("unexpected cart %+v", view.Cart)
	}

	send(t, conn, "teleport", nil)
	var errMsg errorPayload
	readNext(t, conn, "error", &errMsg)
	if errMsg.Message != "unsupported message type" {
		t.Fatalf("unexpected error %q", errMsg.Message)
	}

	send(t, conn, "addToCart", "not an object")
	readNext(t, conn, "error", &errMsg)
	if errMsg.Message != "invalid payload" {
		t.Fatalf("unexpected error %q", errMsg.Message)
	}
}

func TestStorefrontCartSurvivesReconnect(t *testing.T) {
	server, _ := newTestServer(t, sampleProducts(), sampleQuestions())

	first := dial(t, server, "/ws/storefront?clientId=c2")
	readNext(t, first, "session", nil)
	readNext(t, first, "view", nil)
	send(t, first, "addToCart", map[string]any{"productId": 1, "quantity": 1})
	readNext(t, first, "view", nil)
	first.Close()

	second := dial(t, server, "/ws/storefront?clientId=c2")
	defer second.Close()
	readNext(t, second, "session", nil)
	var view render.StorefrontView
	readNext(t, second, "view", &view)
	if view.Cart.ItemCount != 1 {
		t.Fatalf("expected persisted cart on reconnect, got %+v", view.Cart)
	}
}

func TestQueuedCommandsAppliedAfterClose(t *testing.T) {
	server, _ := newTestServer(t, sampleProducts(), sampleQuestions())

	first := dial(t, server, "/ws/storefront?clientId=burst")
	readNext(t, first, "session", nil)
	readNext(t, first, "view", nil)
	for i := 0; i < 10; i++ {
		send(t, first, "addToCart", map[string]any{"productId": 1, "quantity": 1})
	}
	_ = first.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	first.Close()

	var view render.StorefrontView
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn := dial(t, server, "/ws/storefront?clientId=burst")
		readNext(t, conn, "session", nil)
		readNext(t, conn, "view", &view)
		conn.Close()
		if view.Cart.ItemCount == 10 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if view.Cart.ItemCount != 10 {
		t.Fatalf("expected all 10 queued adds persisted, got %d", view.Cart.ItemCount)
	}
}

func TestSearchIsDebounced(t *testing.T) {
	server, _ := newTestServer(t, sampleProducts(), sampleQuestions())
	conn := dial(t, server, "/ws/storefront")
	defer conn.Close()

	var session sessionPayload
	readNext(t, conn, "session", &session)
	if session.ClientID == "" {
		t.Fatalf("expected a generated client id")
	}
	readNext(t, conn, "view", nil)

	for _, text := range []string{"l", "la", "lam"} {
		send(t, conn, "search", map[string]any{"text": text})
	}

	var view render.StorefrontView
	readNext(t, conn, "view", &view)
	if view.Search != "lam" || len(view.Products) != 1 {
		t.Fatalf("expected one view for the last search, got search=%q products=%d", view.Search, len(view.Products))
	}

	_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no further views for superseded searches")
	}
}

func TestQuizNotReadyThenPlay(t *testing.T) {
	server, bank := newTestServer(t, sampleProducts(), nil)
	conn := dial(t, server, "/ws/quiz?clientId=q1")
	defer conn.Close()

	readNext(t, conn, "session", nil)
	var view render.QuizView
	readNext(t, conn, "view", &view)
	if view.Ready || view.Screen != render.ScreenSetup {
		t.Fatalf("expected setup screen before questions load, got %+v", view)
	}

	send(t, conn, "startQuiz", map[string]any{"count": 1})
	readNext(t, conn, "view", &view)
	if view.Notice != app.NotReadyNotice {
		t.Fatalf("expected not ready notice, got %q", view.Notice)
	}

	bank.Set(sampleQuestions())
	send(t, conn, "startQuiz", map[string]any{"count": 1})
	readNext(t, conn, "view", &view)
	if view.Screen != render.ScreenQuiz {
		t.Fatalf("expected quiz screen, got %+v", view)
	}

	send(t, conn, "answer", map[string]any{"choice": "Na"})
	readNext(t, conn, "view", &view)
	if view.Screen != render.ScreenResult || view.Result.Score != 1 {
		t.Fatalf("expected 1/1 result, got %+v", view.Result)
	}

	send(t, conn, "submitScore", map[string]any{"name": "Marie"})
	readNext(t, conn, "view", &view)
	if view.Screen != render.ScreenSetup || len(view.Leaderboard) != 1 || view.Leaderboard[0] != "Marie - 1/1" {
		t.Fatalf("expected leaderboard entry, got %+v", view)
	}
}

func newTestServer(t *testing.T, products []domain.Product, questions []domain.Question) (*httptest.Server, *app.QuestionBank) {
	t.Helper()
	store := catalog.NewStore()
	store.Set(products)
	bank := app.NewQuestionBank()
	bank.Set(questions)

	handler := NewWSHandler(Options{
		Catalog:        store,
		Questions:      bank,
		Store:          memory.NewKVStore(),
		SearchDebounce: 20 * time.Millisecond,
		Logger:         zap.NewNop(),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/storefront", handler.ServeStorefront)
	mux.HandleFunc("/ws/quiz", handler.ServeQuiz)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, bank
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string, out any) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%s)", expect, msg.Type, msg.Payload)
	}
	if out != nil {
		if err := json.Unmarshal(msg.Payload, out); err != nil {
			t.Fatalf("decode %s payload: %v", expect, err)
		}
	}
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mug", Description: "Ceramic coffee mug", Price: 12},
		{ID: 2, Name: "Lamp", Description: "Brass desk light", Price: 39.99},
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Question: "What is the chemical symbol for sodium?", Choices: []string{"S", "Na"}, Answer: "Na"},
	}
}
