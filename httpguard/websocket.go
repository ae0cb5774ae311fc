package httpguard

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/universal-connector/guard/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// UpgradeWebSocket runs the admission check and, when it passes,
// completes the WebSocket handshake. The token comes from the
// Authorization header or, for browser clients that cannot set
// headers on WebSocket requests, a "token" query parameter.
//
// On rejection the HTTP error response is written before returning,
// so callers only need to handle the success path.
func (g *Guard) UpgradeWebSocket(w http.ResponseWriter, r *http.Request, endpoint string) (*websocket.Conn, *auth.Claims, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	clientID := ClientID(r)
	claims, status, err := g.Admit(r.Context(), clientID, token, endpoint)
	if err != nil {
		setRateLimitHeaders(w, status)
		code := StatusCode(err)
		http.Error(w, http.StatusText(code), code)
		return nil, nil, err
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		return nil, nil, err
	}
	return conn, claims, nil
}
