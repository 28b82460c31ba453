package factory

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessgame-go/internal/api/response"
	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/protocol"
)

// IntegrationSuite drives the wired application over real HTTP and websocket
// connections.
type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	server *httptest.Server
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.server = httptest.NewServer(s.app.Router)
}

func (s *IntegrationSuite) TearDownTest() {
	s.app.WebSocket.CloseAll()
	s.server.Close()
}

func (s *IntegrationSuite) do(method, path string, body any, token string, out any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *IntegrationSuite) register(username string) string {
	var auth response.AuthResponse
	status := s.do(http.MethodPost, "/api/v1/users", map[string]string{"username": username, "password": "pw"}, "", &auth)
	s.Require().Equal(http.StatusCreated, status)
	return auth.SessionToken
}

func (s *IntegrationSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *IntegrationSuite) send(conn *websocket.Conn, cmd protocol.Command) {
	s.Require().NoError(conn.WriteJSON(cmd))
}

func (s *IntegrationSuite) read(conn *websocket.Conn) protocol.Message {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var msg protocol.Message
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

func (s *IntegrationSuite) expectNotification(conn *websocket.Conn, text string) {
	msg := s.read(conn)
	s.Equal(protocol.Notification, msg.ServerMessageType)
	s.Equal(text, msg.Message)
}

func (s *IntegrationSuite) expectLoadGame(conn *websocket.Conn) *chess.Game {
	msg := s.read(conn)
	s.Require().Equal(protocol.LoadGame, msg.ServerMessageType)
	g, err := msg.DecodeGame()
	s.Require().NoError(err)
	return g
}

func (s *IntegrationSuite) move(conn *websocket.Conn, token, text string) {
	m, err := chess.ParseMove(text)
	s.Require().NoError(err)
	s.send(conn, protocol.NewMakeMove(token, m))
}

func (s *IntegrationSuite) seatedGame() (id model.GameID, whiteToken, blackToken string, white, black *websocket.Conn) {
	whiteToken = s.register("alice")
	blackToken = s.register("bob")

	var created response.Game
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/games", map[string]string{"name": "match"}, whiteToken, &created))
	id = model.GameID(created.ID)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/api/v1/games/"+created.ID+"/join", map[string]string{"player_color": "WHITE"}, whiteToken, nil))
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/api/v1/games/"+created.ID+"/join", map[string]string{"player_color": "BLACK"}, blackToken, nil))

	white = s.dial()
	s.send(white, protocol.NewJoinPlayer(whiteToken, id, chess.White))
	s.expectLoadGame(white)

	black = s.dial()
	s.send(black, protocol.NewJoinPlayer(blackToken, id, chess.Black))
	s.expectLoadGame(black)
	s.expectNotification(white, "bob has joined as the BLACK player.")

	return id, whiteToken, blackToken, white, black
}

func (s *IntegrationSuite) TestFoolsMateOverWebsocket() {
	id, whiteToken, blackToken, white, black := s.seatedGame()

	watcherToken := s.register("carol")
	watcher := s.dial()
	s.send(watcher, protocol.NewJoinObserver(watcherToken, id))
	s.expectLoadGame(watcher)
	s.expectNotification(white, "carol has joined as an observer.")
	s.expectNotification(black, "carol has joined as an observer.")

	plies := []struct {
		conn  *websocket.Conn
		token string
		move  string
		mover string
	}{
		{white, whiteToken, "f2f3", "alice"},
		{black, blackToken, "e7e5", "bob"},
		{white, whiteToken, "g2g4", "alice"},
		{black, blackToken, "d8h4", "bob"},
	}
	everyone := []*websocket.Conn{white, black, watcher}

	for _, ply := range plies {
		s.move(ply.conn, ply.token, ply.move)
		for _, c := range everyone {
			s.expectLoadGame(c)
			if c != ply.conn {
				s.expectNotification(c, ply.mover+" moved "+ply.move[:2]+"->"+ply.move[2:])
			}
		}
	}
	for _, c := range everyone {
		s.expectNotification(c, "alice has been checkmated!")
	}

	// Further moves are refused
	s.move(white, whiteToken, "e2e4")
	msg := s.read(white)
	s.Equal(protocol.Error, msg.ServerMessageType)
	s.Equal("Error: Cannot move after the completion of the game!", msg.ErrorMessage)

	var g response.Game
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/games/"+string(id), nil, whiteToken, &g))
	s.True(g.Finished)
	s.Equal(string(chess.StatusCheckmate), g.Status)
}

func (s *IntegrationSuite) TestMovesArePersisted() {
	id, whiteToken, _, white, black := s.seatedGame()

	s.move(white, whiteToken, "e2e4")
	s.expectLoadGame(white)
	s.expectLoadGame(black)
	s.expectNotification(black, "alice moved e2->e4")

	record, err := s.app.GameController.GetGame(s.T().Context(), id)
	s.Require().NoError(err)
	s.Equal(chess.Black, record.Game.Turn())

	piece, ok := record.Game.Board().Get(chess.MustParsePosition("e4"))
	s.True(ok)
	s.Equal(chess.Pawn, piece.Kind)
}

func (s *IntegrationSuite) TestUnauthenticatedCommandIsRejected() {
	token := s.register("alice")
	var created response.Game
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/games", map[string]string{"name": "match"}, token, &created))

	conn := s.dial()
	s.send(conn, protocol.NewJoinObserver("not-a-token", model.GameID(created.ID)))
	msg := s.read(conn)
	s.Equal(protocol.Error, msg.ServerMessageType)
	s.Equal("Error: unauthorized", msg.ErrorMessage)
}

func (s *IntegrationSuite) TestResignEndsGameAndClosesConnection() {
	id, _, blackToken, white, black := s.seatedGame()

	s.send(black, protocol.NewResign(blackToken, id))
	s.expectNotification(white, "bob has resigned from the game.")

	// The resigning connection receives the notice and is then closed
	s.expectNotification(black, "bob has resigned from the game.")
	s.Require().NoError(black.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err := black.ReadMessage()
	s.Error(err)

	s.True(s.app.Registry.IsFinished(id))
}

func (s *IntegrationSuite) TestDisconnectNotifiesOthers() {
	_, _, _, white, black := s.seatedGame()

	s.Require().NoError(black.Close())
	s.expectNotification(white, "bob has left the game.")

	s.Eventually(func() bool {
		return s.app.Registry.Count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
