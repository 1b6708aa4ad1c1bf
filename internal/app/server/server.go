package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Shubham-rawat0/chatApp/internal/app/server/handlers"
	"github.com/Shubham-rawat0/chatApp/pkg/middleware"
)

type Server struct {
	log         *slog.Logger
	mux         *http.ServeMux
	addr        string
	app         string
	userHandler *handlers.UserHandler
	wsHandler   *handlers.WSHandler
	tokenSvc    middleware.TokenValidator
}

func NewServer(
	log *slog.Logger,
	app string,
	addr string,
	userHandler *handlers.UserHandler,
	wsHandler *handlers.WSHandler,
	tokenSvc middleware.TokenValidator,
) *Server {
	s := &Server{
		log:         log,
		mux:         http.NewServeMux(),
		addr:        addr,
		app:         app,
		userHandler: userHandler,
		wsHandler:   wsHandler,
		tokenSvc:    tokenSvc,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc)

	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	s.mux.Handle("GET /currentUser", protected(s.userHandler.CurrentUser))
	s.mux.Handle("GET /friendsOfUser", protected(s.userHandler.FriendsOfUser))
	s.mux.Handle("GET /user/account", protected(s.userHandler.Account))
	s.mux.Handle("PATCH /user/updateUser", protected(s.userHandler.UpdateUser))
	s.mux.Handle("POST /user/addfriend", protected(s.userHandler.AddFriend))
	s.mux.Handle("PATCH /user/acceptfriend", protected(s.userHandler.AcceptFriend))
	s.mux.Handle("PATCH /user/rejectfriend", protected(s.userHandler.RejectFriend))
	s.mux.Handle("POST /user/blockfriend", protected(s.userHandler.BlockFriend))
	s.mux.Handle("GET /user/getGroups", protected(s.userHandler.GetGroups))
	s.mux.Handle("POST /user/createGroup", protected(s.userHandler.CreateGroup))
	s.mux.Handle("PATCH /user/addToGroup", protected(s.userHandler.AddToGroup))
	s.mux.Handle("POST /user/joinGroup", protected(s.userHandler.JoinGroup))

	// The socket endpoint stays open; connections bind a user through the
	// register event after the upgrade.
	s.mux.HandleFunc("/ws", s.wsHandler.Handle)
}

func (s *Server) Start() error {
	handler := middleware.RequestLogger(s.log)(middleware.TracerMiddleware(s.app)(s.mux))

	server := &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // long-lived websocket writes manage their own deadlines
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info("server starting", "addr", s.addr)
	return server.ListenAndServe()
}
