package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type subscribeMessage struct {
	UserID string `json:"user_id"`
}

// serveWS upgrades the connection and waits for the client to announce a
// user id; the connection then receives every notification pushed to that
// user until it drops. Missed pushes are not replayed; the persisted
// notification list is the catch-up path.
func (app *application) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Println("websocket upgrade:", err)
		return
	}

	var sub subscribeMessage
	if err := conn.ReadJSON(&sub); err != nil {
		conn.Close()
		return
	}
	if _, err := primitive.ObjectIDFromHex(sub.UserID); err != nil {
		conn.Close()
		return
	}

	app.hub.Subscribe(sub.UserID, conn)
	app.infoLog.Printf("user %s subscribed to live notifications", sub.UserID)

	// Drain until the peer goes away; inbound frames are not meaningful
	// beyond keeping the connection alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	app.hub.Unsubscribe(sub.UserID, conn)
	conn.Close()
}
