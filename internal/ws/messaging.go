package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"go.uber.org/zap"
)

// WebSocket message types for the messaging protocol.
const (
	MsgTypeChatMessage = "chat_message" // A new message on the thread
	MsgTypeError       = "error"       // Error message
	MsgTypeConnected   = "connected"   // Connection confirmed
)

// WSMessage is the envelope for all messages sent over the messaging WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChatMessagePayload is sent by a connected session to post on the thread.
type ChatMessagePayload struct {
	Body string `json:"body"`
}

// ErrorPayload carries an error message to the session.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	ClientID uint `json:"client_id"`
	UserID   uint `json:"user_id"`
}

// MessagingHandler manages WebSocket connections for client message threads.
type MessagingHandler struct {
	Hub       *Hub
	JwtSecret string
	Messages  *service.MessageService
}

// NewMessagingHandler returns a new MessagingHandler.
func NewMessagingHandler(hub *Hub, jwtSecret string, messages *service.MessageService) *MessagingHandler {
	return &MessagingHandler{
		Hub:       hub,
		JwtSecret: jwtSecret,
		Messages:  messages,
	}
}

// upgrader is configured for messaging WebSocket upgrades.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		switch origin {
		case "https://nutripraxis.app",
			"https://www.nutripraxis.app",
			"https://api.nutripraxis.app":
			return true
		}
		// Allow localhost for development
		if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" {
			return true
		}
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleThreadSession upgrades an HTTP request to a WebSocket connection on
// a client's message thread. Authentication is done via a "token" query
// parameter because WebSocket connections cannot easily use Authorization
// headers.
func (mh *MessagingHandler) HandleThreadSession(c *gin.Context) {
	log := logger.Get()

	clientID, err := parseClientID(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "client_id is required"})
		return
	}

	// Authenticate via query param token
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token query parameter is required"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(mh.JwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	// Ensure this is an access token
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token type"})
		return
	}

	// Extract user ID
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user_id in token"})
		return
	}
	userID := uint(idFloat)

	// Thread access is the same ownership rule the REST surface enforces.
	if _, _, err := mh.Messages.GetThread(userID, clientID, 1, 1); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "client not found"})
		return
	}

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed",
			zap.Uint("client_id", clientID),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return
	}

	// Create session and register with hub
	session := &Client{
		Hub:    mh.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		RoomID: service.ClientRoom(clientID),
		UserID: userID,
	}
	mh.Hub.Register <- session

	// Send connected confirmation
	connectedPayload, _ := json.Marshal(ConnectedPayload{
		ClientID: clientID,
		UserID:   userID,
	})
	connectedMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeConnected,
		Payload: connectedPayload,
	})
	session.Send <- connectedMsg

	log.Info("thread session started",
		zap.Uint("client_id", clientID),
		zap.Uint("user_id", userID),
	)

	// Start read and write pumps
	go session.WritePump()
	go session.ReadPump(func(s *Client, data []byte) {
		mh.handleMessage(s, clientID, data)
	})
}

// handleMessage parses an incoming WebSocket frame and posts it on the
// thread. Persistence happens before any broadcast so a dropped socket
// never loses a message.
func (mh *MessagingHandler) handleMessage(session *Client, clientID uint, data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		session.sendError("invalid message format")
		return
	}

	if msg.Type != MsgTypeChatMessage {
		session.sendError("unknown message type")
		return
	}

	var payload ChatMessagePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		session.sendError("invalid chat payload")
		return
	}

	if _, err := mh.Messages.SendMessage(session.UserID, clientID, models.SenderCoach, payload.Body); err != nil {
		logger.Get().Warn("failed to post thread message",
			zap.Uint("client_id", clientID),
			zap.Uint("user_id", session.UserID),
			zap.Error(err),
		)
		session.sendError(err.Error())
	}
}

// sendError pushes an error frame to this session only.
func (c *Client) sendError(message string) {
	payload, _ := json.Marshal(ErrorPayload{Message: message})
	frame, _ := json.Marshal(WSMessage{Type: MsgTypeError, Payload: payload})
	select {
	case c.Send <- frame:
	default:
	}
}

// parseClientID parses the client_id route param.
func parseClientID(param string) (uint, error) {
	parsed, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
